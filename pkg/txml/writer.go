package txml

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes a Document into the binv2 byte layout. The string table
// is rebuilt from scratch on every encode, so a decode→encode round trip is
// semantically equivalent but not guaranteed byte-identical to the original
// file (string order may differ).
func Encode(doc *Document) ([]byte, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: nil document", ErrMalformedLiteral)
	}

	table := NewStringTable()
	collectStrings(doc.Root, table)

	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.Write(doc.Unknown[:])
	buf.Write(make([]byte, spacerSize))
	writeU32(&buf, uint32(table.Len()))
	writeU32(&buf, uint32(table.Size()))

	// Record table: offsets are the running sum of prior string lengths in
	// table order, so the blob is a straight concatenation.
	off := uint32(0)
	for _, s := range table.strings {
		writeU32(&buf, off)
		writeU32(&buf, uint32(len(s)))
		off += uint32(len(s))
	}
	for _, s := range table.strings {
		buf.WriteString(s)
	}

	if err := writeNode(&buf, table, doc.Root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// collectStrings registers every string of the subtree in the table,
// children first, then value tags and string payloads, then the node's own
// tag and attribute pairs. The exact order is arbitrary but deterministic;
// nothing downstream depends on it since all references are by index.
func collectStrings(n *Node, table *StringTable) {
	for _, child := range n.Children {
		collectStrings(child, table)
	}
	for _, v := range n.Values {
		table.Intern(v.Tag)
		if v.Type != nil && v.Type.ID == TypeString {
			table.Intern(v.Str)
		}
	}
	table.Intern(n.Tag)
	for _, a := range n.Attrs {
		table.Intern(a.Key)
		table.Intern(a.Value)
	}
}

func writeNode(buf *bytes.Buffer, table *StringTable, n *Node) error {
	if err := writeStringIndex(buf, table, n.Tag); err != nil {
		return err
	}
	writeU32(buf, uint32(len(n.Attrs)))
	for _, a := range n.Attrs {
		if err := writeStringIndex(buf, table, a.Key); err != nil {
			return err
		}
		if err := writeStringIndex(buf, table, a.Value); err != nil {
			return err
		}
	}
	writeU32(buf, uint32(len(n.Values)))
	for _, v := range n.Values {
		if err := writeValue(buf, table, v); err != nil {
			return err
		}
	}
	writeU32(buf, uint32(len(n.Children)))
	for _, child := range n.Children {
		if err := writeNode(buf, table, child); err != nil {
			return err
		}
	}
	return nil
}

func writeValue(buf *bytes.Buffer, table *StringTable, v *Value) error {
	if v.Type == nil {
		return fmt.Errorf("%w: value %q has no type", ErrUnknownType, v.Tag)
	}
	if _, err := TypeByID(v.Type.ID); err != nil {
		return fmt.Errorf("value %q: %w", v.Tag, err)
	}
	if err := writeStringIndex(buf, table, v.Tag); err != nil {
		return err
	}
	writeU32(buf, uint32(v.Type.ID))

	switch v.Type.ID {
	case TypeString:
		return writeStringIndex(buf, table, v.Str)
	case TypeByteArray:
		writeU32(buf, uint32(len(v.Bytes)))
		buf.Write(v.Bytes)
		return nil
	}

	// Field count must match the descriptor exactly; a mismatch means fields
	// were dropped or fabricated upstream.
	if len(v.Fields) != len(v.Type.Fields) {
		return fmt.Errorf("%w: value %q of type %s has %d fields, want %d",
			ErrAttributeArity, v.Tag, v.Type.Name, len(v.Fields), len(v.Type.Fields))
	}
	for i, f := range v.Type.Fields {
		writeField(buf, f.Format, v.Fields[i])
	}
	return nil
}

func writeField(buf *bytes.Buffer, f Format, v FieldValue) {
	switch f {
	case FormatU8, FormatBool:
		buf.WriteByte(byte(v.Uint))
	case FormatU16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v.Uint))
		buf.Write(b[:])
	case FormatU32:
		writeU32(buf, uint32(v.Uint))
	case FormatU64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v.Uint)
		buf.Write(b[:])
	case FormatF32:
		writeU32(buf, math.Float32bits(v.Float))
	}
}

func writeStringIndex(buf *bytes.Buffer, table *StringTable, s string) error {
	i, err := table.Index(s)
	if err != nil {
		return err
	}
	writeU32(buf, i)
	return nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
