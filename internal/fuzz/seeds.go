package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"ppfront/internal/suite"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"#define f(a, ...) #a __VA_ARGS__ a ## a\nf(1, 2, 3)\n",
	"#define z z[0]\nz\n",
	"#include \"self.h\"\n",
	"#ifdef A\n#else\n#endif\n",
	"??=define X ??/\n1\nX\n",
	"L\"a\\x41\" u8\"b\" \"\\u00e9\"\n",
	"/* unterminated",
	"'",
	"#define\n#undef\n#include\n#\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addSuiteSeeds(f)
}

// addSuiteSeeds добавляет входы и include-фикстуры всех TOML-наборов.
func addSuiteSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "suites")
	if _, err := os.Stat(root); err != nil {
		return
	}
	reg := suite.NewRegistry()
	if err := reg.LoadDir(root); err != nil {
		return
	}
	for _, c := range reg.All() {
		f.Add(clampSeed([]byte(c.Input)))
		for _, content := range c.Files {
			f.Add(clampSeed([]byte(content)))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
