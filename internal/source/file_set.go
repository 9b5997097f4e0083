package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source buffers of one translation unit.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	decoder *Charset
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// SetCharset задаёт кодировку, из которой перекодируется содержимое Load/AddSource.
// nil означает UTF-8 без преобразований.
func (fileSet *FileSet) SetCharset(cs *Charset) {
	fileSet.decoder = cs
}

// Add stores a buffer as is, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: content too large: %w", path, err))
	}
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	normalizedPath := path
	if flags&FileVirtual == 0 {
		normalizedPath = normalizePath(path)
	}

	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// AddSource normalizes raw bytes (charset, BOM, CRLF) and calls Add.
func (fileSet *FileSet) AddSource(path string, raw []byte, flags FileFlags) (FileID, error) {
	content := raw
	if fileSet.decoder != nil {
		decoded, err := fileSet.decoder.Decode(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		content = decoded
		flags |= FileDecoded
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// Load reads a file from disk and calls AddSource.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddSource(path, content, 0)
}

// AddVirtual adds a virtual buffer (stdin, test case, command line) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of buffers in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Files returns all buffers in insertion order.
func (fileSet *FileSet) Files() []*File {
	out := make([]*File, len(fileSet.files))
	for i := range fileSet.files {
		out[i] = &fileSet.files[i]
	}
	return out
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[path]
	if !ok {
		id, ok = fileSet.index[normalizePath(path)]
	}
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine возвращает строку с заданным номером (1-based) без перевода строки.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	n := uint32(len(f.LineIdx)) // #nosec G115 -- не больше len(Content)

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < n:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < n {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start > lenContent || start > end {
		return ""
	}
	return string(f.Content[start:end])
}
