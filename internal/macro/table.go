package macro

// Table maps names to definitions for one translation unit.
type Table struct {
	defs map[string]*Macro
}

func NewTable() *Table {
	return &Table{defs: make(map[string]*Macro)}
}

// DefineResult describes what Define did.
type DefineResult uint8

const (
	Defined DefineResult = iota
	// Unchanged: the name already had an equivalent definition.
	Unchanged
	// Conflict: the name has a different definition, which is kept.
	Conflict
)

// Define installs m unless the name is already taken. On Conflict the existing
// definition is returned and stays in the table.
func (t *Table) Define(m *Macro) (DefineResult, *Macro) {
	if prev, ok := t.defs[m.Name]; ok {
		if prev.Equivalent(m) {
			return Unchanged, prev
		}
		return Conflict, prev
	}
	t.defs[m.Name] = m
	return Defined, m
}

// Undefine removes name and reports whether it was defined.
func (t *Table) Undefine(name string) bool {
	if _, ok := t.defs[name]; !ok {
		return false
	}
	delete(t.defs, name)
	return true
}

func (t *Table) Lookup(name string) *Macro {
	return t.defs[name]
}

func (t *Table) IsDefined(name string) bool {
	_, ok := t.defs[name]
	return ok
}

func (t *Table) Len() int {
	return len(t.defs)
}
