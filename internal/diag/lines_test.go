package diag

import (
	"testing"

	"ppfront/internal/source"
)

func TestLinesFlattenNotesInOrder(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.AddVirtual("<case>", []byte("#define A 1\n#define A 2\n"))
	b := fs.AddVirtual("b.h", []byte("x\n"))

	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	ReportError(r, MacRedefined, source.Span{File: a, Start: 20, End: 21}, "macro `A` redefined differently").
		WithNote(source.Span{File: a, Start: 8, End: 9}, "macro `A` first defined here").
		Emit()
	ReportWarning(r, IncExtraTokens, source.Span{File: b, Start: 0, End: 1}, "second\nline").Emit()

	want := []string{
		"<case>:2:9: macro `A` redefined differently",
		"<case>:1:9: macro `A` first defined here",
		"b.h:1:1: second line",
	}
	got := Lines(bag.Items(), fs)
	if len(got) != len(want) {
		t.Fatalf("got %d lines: %q", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(New(SevWarning, IncExtraTokens, source.Span{}, "a")) {
		t.Fatal("first Add must succeed")
	}
	if bag.Add(New(SevError, MacArity, source.Span{}, "b")) {
		t.Fatal("second Add must be rejected")
	}
	if bag.HasErrors() || !bag.HasWarnings() || bag.Dropped() != 1 {
		t.Errorf("HasErrors=%v HasWarnings=%v Dropped=%d", bag.HasErrors(), bag.HasWarnings(), bag.Dropped())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexBackslashAtEOF: "LEX1001",
		DirInvalid:        "DIR2001",
		MacInvalidPaste:   "MAC3005",
		IncNotFound:       "INC4005",
		IOLoadFileError:   "IO5001",
		Code(9999):        "E0000",
	}
	for c, want := range tests {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %s; want %s", c, got, want)
		}
	}
	if MacArity.Title() == "" || Code(9999).Title() != "Unknown error" {
		t.Error("unexpected titles")
	}
}

func TestCountingReporter(t *testing.T) {
	bag := NewBag(0)
	r := &CountingReporter{Next: BagReporter{Bag: bag}}
	ReportWarning(r, IncExtraTokens, source.Span{}, "w").Emit()
	b := ReportError(r, MacArity, source.Span{}, "e")
	b.Emit()
	b.Emit()
	if r.Errors != 1 || bag.Len() != 2 {
		t.Errorf("Errors=%d Len=%d", r.Errors, bag.Len())
	}
}
