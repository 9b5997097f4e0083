package include

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestFSResolverSearchOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"src/a.h":     {Data: []byte("local")},
		"inc/a.h":     {Data: []byte("include")},
		"inc/b.h":     {Data: []byte("b include")},
		"sys/b.h":     {Data: []byte("b system")},
		"sys/c.h":     {Data: []byte("system")},
		"inc/dir.h/x": {Data: []byte("")},
	}
	r := &FSResolver{Include: []string{"inc"}, System: []string{"sys"}, FS: fsys}

	tests := []struct {
		req      Request
		wantPath string
		wantText string
	}{
		{Request{Name: "a.h", IncluderDir: "src"}, "src/a.h", "local"},
		{Request{Name: "a.h", System: true, IncluderDir: "src"}, "inc/a.h", "include"},
		{Request{Name: "b.h", System: true}, "inc/b.h", "b include"},
		{Request{Name: "c.h", IncluderDir: "src"}, "sys/c.h", "system"},
	}
	for _, tt := range tests {
		found, err := r.Resolve(tt.req)
		if err != nil {
			t.Errorf("%+v: %v", tt.req, err)
			continue
		}
		if found.Path != tt.wantPath || string(found.Content) != tt.wantText {
			t.Errorf("%+v: got %s %q", tt.req, found.Path, found.Content)
		}
	}

	if _, err := r.Resolve(Request{Name: "missing.h"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
	if _, err := r.Resolve(Request{Name: "dir.h", System: true}); !errors.Is(err, ErrNotFound) {
		t.Errorf("directory must count as not found, err = %v", err)
	}
}

func TestMapResolverAndChain(t *testing.T) {
	first := MapResolver{"a": "1"}
	second := MapResolver{"a": "2", "b": "3"}
	chain := Chain{first, second}

	if f, err := chain.Resolve(Request{Name: "a"}); err != nil || string(f.Content) != "1" {
		t.Errorf("a = %q, %v", f.Content, err)
	}
	if f, err := chain.Resolve(Request{Name: "b"}); err != nil || f.Path != "b" {
		t.Errorf("b = %+v, %v", f, err)
	}
	if _, err := chain.Resolve(Request{Name: "z"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("z: err = %v", err)
	}
}

func TestStackDepth(t *testing.T) {
	s := NewStack(Entry{Path: "main"}, 2)
	if s.Depth() != 0 {
		t.Fatalf("Depth = %d", s.Depth())
	}
	for i := 0; i < 2; i++ {
		if err := s.Push(Entry{Path: "x"}); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := s.Push(Entry{Path: "y"}); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("third push: %v", err)
	}
	if _, ok := s.Pop(); !ok {
		t.Fatal("pop")
	}
	s.Pop()
	if _, ok := s.Pop(); ok {
		t.Error("main file must not be popped")
	}
	s.MarkOnce("x")
	if !s.IsOnce("x") || s.IsOnce("y") {
		t.Error("once tracking")
	}
}
