package provenance

import (
	"testing"

	"ppfront/internal/macro"
	"ppfront/internal/source"
	"ppfront/internal/token"
)

func TestFileChain(t *testing.T) {
	a := NewArena()
	a.AddRootFile(0)
	b := a.AddIncludedFile(1, source.Span{File: 0, Start: 9, End: 12})
	c := a.AddIncludedFile(2, source.Span{File: 1, Start: 9, End: 12})
	if b.Depth != 1 || c.Depth != 2 {
		t.Fatalf("depths %d %d", b.Depth, c.Depth)
	}
	chain := a.FileChain(2)
	if len(chain) != 3 || chain[0].File != 2 || chain[2].File != 0 || !chain[2].Root {
		t.Errorf("chain = %+v", chain)
	}
}

func TestRootSpanAndExpansionChain(t *testing.T) {
	a := NewArena()
	m := &macro.Macro{Name: "f", Kind: macro.FunctionLike, Params: []string{"x"}}

	callName := token.Token{Kind: token.Identifier, Text: "f", Span: source.Span{File: 0, Start: 20, End: 21}}
	argTok := token.Token{Kind: token.Identifier, Text: "y", Span: source.Span{File: 0, Start: 22, End: 23}}
	outer := a.AddInvocation(Invocation{Macro: m, Name: callName, Args: [][]token.Token{{argTok}}})

	bodyTok := token.Token{
		Kind: token.Punct, Text: "+",
		Span:   source.Span{File: 0, Start: 3, End: 4},
		Origin: token.Origin{Expansion: outer, Arg: token.BodyArg, Index: 1},
	}
	fromArg := argTok
	fromArg.Origin = token.Origin{Expansion: outer, Arg: 0, Index: 0}

	if got := a.RootSpan(bodyTok); got != callName.Span {
		t.Errorf("body root = %v; want %v", got, callName.Span)
	}
	if got := a.RootSpan(fromArg); got != argTok.Span {
		t.Errorf("arg root = %v; want %v", got, argTok.Span)
	}

	// вложенное раскрытие: имя второго вызова само пришло из тела первого
	innerName := bodyTok
	innerName.Kind, innerName.Text = token.Identifier, "g"
	inner := a.AddInvocation(Invocation{Macro: &macro.Macro{Name: "g"}, Name: innerName})
	deep := token.Token{Kind: token.Number, Text: "1", Origin: token.Origin{Expansion: inner, Arg: token.BodyArg}}

	chain := a.ExpansionChain(deep)
	if len(chain) != 2 || chain[0].ID != inner || chain[1].ID != outer || chain[0].FromArg {
		t.Errorf("chain = %+v", chain)
	}
	if got := a.RootSpan(deep); got != callName.Span {
		t.Errorf("deep root = %v; want %v", got, callName.Span)
	}
	if len(a.ExpansionChain(argTok)) != 0 {
		t.Error("file token has no expansion history")
	}
}
