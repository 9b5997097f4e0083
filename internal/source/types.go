package source

type (
	// FileID uniquely identifies a source buffer within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source buffer.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the buffer was added from memory (test, stdin, command line).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
	FileDecoded // перекодирован из input charset в UTF-8
)

// File captures metadata and content for a single source buffer.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Dir возвращает каталог файла; для виртуальных буферов пустую строку.
func (f *File) Dir() string {
	if f.Flags&FileVirtual != 0 {
		return ""
	}
	return dirOf(f.Path)
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах
}
