package token

import (
	"slices"

	"ppfront/internal/source"
)

// HideSet is an immutable sorted set of macro names that may not expand a token.
// Operations never modify the receiver, so tokens can share sets.
type HideSet []source.StringID

func (h HideSet) Has(id source.StringID) bool {
	_, ok := slices.BinarySearch(h, id)
	return ok
}

// With returns h ∪ {id}.
func (h HideSet) With(id source.StringID) HideSet {
	i, ok := slices.BinarySearch(h, id)
	if ok {
		return h
	}
	out := make(HideSet, 0, len(h)+1)
	out = append(out, h[:i]...)
	out = append(out, id)
	return append(out, h[i:]...)
}

// Union returns h ∪ o.
func (h HideSet) Union(o HideSet) HideSet {
	switch {
	case len(o) == 0:
		return h
	case len(h) == 0:
		return o
	}
	out := make(HideSet, 0, len(h)+len(o))
	i, j := 0, 0
	for i < len(h) && j < len(o) {
		switch {
		case h[i] < o[j]:
			out = append(out, h[i])
			i++
		case h[i] > o[j]:
			out = append(out, o[j])
			j++
		default:
			out = append(out, h[i])
			i++
			j++
		}
	}
	out = append(out, h[i:]...)
	return append(out, o[j:]...)
}

// Intersect returns h ∩ o.
func (h HideSet) Intersect(o HideSet) HideSet {
	var out HideSet
	i, j := 0, 0
	for i < len(h) && j < len(o) {
		switch {
		case h[i] < o[j]:
			i++
		case h[i] > o[j]:
			j++
		default:
			out = append(out, h[i])
			i++
			j++
		}
	}
	return out
}
