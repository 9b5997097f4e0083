package source

// StringID is a dense handle for an interned identifier spelling.
type StringID uint32

const NoStringID StringID = 0

// Interner хранит имена макросов единицы трансляции; ID используются в hideset.
// Не потокобезопасен: принадлежит одному контексту обработки.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern возвращает ID строки, добавляя её при первом обращении.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	id := StringID(len(i.byID)) // #nosec G115 -- число имён ограничено размером входа
	i.byID = append(i.byID, s)
	i.index[s] = id
	return id
}

// Find возвращает ID без добавления.
func (i *Interner) Find(s string) (StringID, bool) {
	id, ok := i.index[s]
	return id, ok
}

// Lookup возвращает строку по ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup паникует на невалидном ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len учитывает NoStringID, поэтому не меньше 1.
func (i *Interner) Len() int {
	return len(i.byID)
}
