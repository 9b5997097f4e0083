package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiskCachePutGet(t *testing.T) {
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := hashString("k")
	in := &Payload{
		Schema:   diskCacheSchemaVersion,
		Path:     "a.c",
		Output:   "1\n",
		Messages: []string{"a.c:1:1: boom"},
		Status:   1,
		Deps:     []Dependency{{Path: "a.c", Hash: hashString("a")}},
	}
	if err := c.Put(key, in); err != nil {
		t.Fatal(err)
	}
	var out Payload
	ok, err := c.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
	if ok, _ := c.Get(hashString("other"), &out); ok {
		t.Errorf("unexpected hit")
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Get(key, &out); ok {
		t.Errorf("hit after DropAll")
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(Digest{}, &Payload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := c.Get(Digest{}, &Payload{}); ok || err != nil {
		t.Fatalf("Get = %v, %v", ok, err)
	}
}

func TestProcessUnitUsesCache(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.c")
	header := filepath.Join(dir, "h.h")
	writeFile(t, main, "#include \"h.h\"\nV\n")
	writeFile(t, header, "#define V 1\n")

	c, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: c}
	ctx := context.Background()

	first, err := ProcessUnit(ctx, main, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Text() != "1\n" {
		t.Fatalf("first run: cached=%v text=%q", first.Cached, first.Text())
	}

	second, err := ProcessUnit(ctx, main, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Text() != "1\n" {
		t.Fatalf("second run: cached=%v text=%q", second.Cached, second.Text())
	}

	// изменение зависимости делает запись недействительной
	writeFile(t, header, "#define V 2\n")
	third, err := ProcessUnit(ctx, main, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached || third.Text() != "2\n" {
		t.Fatalf("third run: cached=%v text=%q", third.Cached, third.Text())
	}

	// другие опции дают другой ключ
	other, err := ProcessUnit(ctx, main, Options{Cache: c, MaxDiagnostics: 5})
	if err != nil {
		t.Fatal(err)
	}
	if other.Cached {
		t.Errorf("options change should miss the cache")
	}
}
