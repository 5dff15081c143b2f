package txml

// Attr is a single string attribute on a structural node. Attribute values
// in the binary format are always strings; typed data travels in value
// children instead.
type Attr struct {
	Key   string
	Value string
}

// Node is a structural node of the tree: a tag, string attributes, typed
// leaf values, and nested sub-nodes. A node exclusively owns its children;
// the tree carries no shared or back references.
type Node struct {
	Tag      string
	Attrs    []Attr
	Values   []*Value
	Children []*Node
}

// FieldValue holds one decoded payload field. Integer and bool formats live
// in Uint (bool as 0 or 1); FormatF32 fields live in Float.
type FieldValue struct {
	Uint  uint64
	Float float32
}

// Value is a typed leaf. Exactly one payload slot is populated, selected by
// the descriptor: Str for TypeString, Bytes for TypeByteArray, and Fields
// (one entry per descriptor field, in order) for everything else.
type Value struct {
	Tag    string
	Type   *TypeDescriptor
	Str    string
	Bytes  []byte
	Fields []FieldValue
}

// Document is a fully decoded file: the root node plus the 4-byte header
// field of unknown meaning, retained verbatim for re-emission. Documents
// built from XML leave Unknown zeroed.
type Document struct {
	Root    *Node
	Unknown [4]byte
}
