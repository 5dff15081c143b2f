package txml

import "fmt"

// StringTable is the per-file interned string pool. Every string in a file
// appears in it exactly once and is referenced elsewhere by its dense index.
// Index 0 is always the empty string.
type StringTable struct {
	strings []string
	lookup  map[string]uint32
}

// NewStringTable creates an empty table with the empty string pre-registered
// at index 0.
func NewStringTable() *StringTable {
	t := &StringTable{lookup: make(map[string]uint32)}
	t.Intern("")
	return t
}

// Intern returns the index of s, registering it first if it has not been
// seen. Indices are assigned in first-use order.
func (t *StringTable) Intern(s string) uint32 {
	if i, ok := t.lookup[s]; ok {
		return i
	}
	i := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	t.lookup[s] = i
	return i
}

// Index returns the index of a previously registered string.
func (t *StringTable) Index(s string) (uint32, error) {
	i, ok := t.lookup[s]
	if !ok {
		return 0, fmt.Errorf("%w: string %q not registered", ErrStringTableCorrupt, s)
	}
	return i, nil
}

// At resolves an index read from the wire. Out-of-range indices are a fatal
// format error, never a panic.
func (t *StringTable) At(i uint32) (string, error) {
	if int(i) >= len(t.strings) {
		return "", fmt.Errorf("%w: string index %d out of range [0, %d)", ErrStringTableCorrupt, i, len(t.strings))
	}
	return t.strings[i], nil
}

// Len returns the number of registered strings.
func (t *StringTable) Len() int {
	return len(t.strings)
}

// Size returns the total byte length of all registered strings, the value
// written to the STRINGS_SIZE header field.
func (t *StringTable) Size() int {
	n := 0
	for _, s := range t.strings {
		n += len(s)
	}
	return n
}
