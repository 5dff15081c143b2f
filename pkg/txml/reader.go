package txml

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Magic is the 12-byte signature at the start of every binv2 file.
const Magic = "txml binv2.0"

// Fixed header layout offsets. The string record table starts immediately
// after the STRINGS_SIZE field.
const (
	magicSize   = 12
	unknownSize = 4
	spacerSize  = 16
	headerSize  = magicSize + unknownSize + spacerSize + 8
	recordSize  = 8 // (offset:u32, length:u32)
)

// cursor is a bounds-checked forward-seekable view over the input buffer.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.off+n > len(c.buf) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.off, len(c.buf)-c.off)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) f32() (float32, error) {
	v, err := c.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Decode parses a binv2 byte buffer into a Document. Any structural
// violation is fatal; Decode never returns a partial tree.
func Decode(data []byte) (*Document, error) {
	c := &cursor{buf: data}

	magic, err := c.bytes(magicSize)
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrHeaderMismatch, magic)
	}

	doc := &Document{}
	unknown, err := c.bytes(unknownSize)
	if err != nil {
		return nil, err
	}
	copy(doc.Unknown[:], unknown)

	spacer, err := c.bytes(spacerSize)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(spacer, make([]byte, spacerSize)) {
		return nil, fmt.Errorf("%w: non-zero spacer", ErrHeaderMismatch)
	}

	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	size, err := c.u32()
	if err != nil {
		return nil, err
	}

	table, err := readStringTable(c, count, size)
	if err != nil {
		return nil, err
	}

	doc.Root, err = readNode(c, table)
	if err != nil {
		return nil, err
	}

	if c.off != len(c.buf) {
		return nil, fmt.Errorf("%w: %d bytes left at offset %d", ErrTrailingData, len(c.buf)-c.off, c.off)
	}
	return doc, nil
}

// readStringTable reads count (offset, length) records and resolves each
// payload by seeking into the blob that follows the record table. Payload
// offsets are file-controlled and need not be sequential, so every payload
// read goes through its declared offset rather than streaming the blob.
func readStringTable(c *cursor, count, size uint32) (*StringTable, error) {
	blobStart := c.off + int(count)*recordSize
	if blobStart > len(c.buf) {
		return nil, fmt.Errorf("%w: need %d record bytes at offset %d", ErrTruncated, int(count)*recordSize, c.off)
	}

	table := &StringTable{lookup: make(map[string]uint32, count)}
	total := 0
	for i := uint32(0); i < count; i++ {
		off, err := c.u32()
		if err != nil {
			return nil, err
		}
		length, err := c.u32()
		if err != nil {
			return nil, err
		}

		payload := cursor{buf: c.buf, off: blobStart + int(off)}
		raw, err := payload.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: string %d", ErrStringTableCorrupt, i)
		}
		s := string(raw)
		table.strings = append(table.strings, s)
		if _, ok := table.lookup[s]; !ok {
			table.lookup[s] = i
		}
		total += int(length)
	}

	// Two self-checks from the format: the record table must end exactly at
	// the blob, and the declared aggregate size must match the sum of the
	// record lengths.
	if c.off != blobStart {
		return nil, fmt.Errorf("%w: record table ends at %d, blob starts at %d", ErrStringTableCorrupt, c.off, blobStart)
	}
	if total != int(size) {
		return nil, fmt.Errorf("%w: declared size %d, summed %d", ErrStringTableCorrupt, size, total)
	}

	if _, err := c.bytes(int(size)); err != nil {
		return nil, err
	}
	return table, nil
}

func readNode(c *cursor, table *StringTable) (*Node, error) {
	tagIdx, err := c.u32()
	if err != nil {
		return nil, err
	}
	tag, err := table.At(tagIdx)
	if err != nil {
		return nil, err
	}
	n := &Node{Tag: tag}

	nattrs, err := c.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nattrs; i++ {
		keyIdx, err := c.u32()
		if err != nil {
			return nil, err
		}
		valIdx, err := c.u32()
		if err != nil {
			return nil, err
		}
		key, err := table.At(keyIdx)
		if err != nil {
			return nil, err
		}
		val, err := table.At(valIdx)
		if err != nil {
			return nil, err
		}
		n.Attrs = append(n.Attrs, Attr{Key: key, Value: val})
	}

	nvalues, err := c.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nvalues; i++ {
		v, err := readValue(c, table)
		if err != nil {
			return nil, err
		}
		n.Values = append(n.Values, v)
	}

	nchildren, err := c.u32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nchildren; i++ {
		child, err := readNode(c, table)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func readValue(c *cursor, table *StringTable) (*Value, error) {
	tagIdx, err := c.u32()
	if err != nil {
		return nil, err
	}
	tag, err := table.At(tagIdx)
	if err != nil {
		return nil, err
	}
	typeID, err := c.u32()
	if err != nil {
		return nil, err
	}
	desc, err := TypeByID(TypeID(typeID))
	if err != nil {
		return nil, err
	}

	v := &Value{Tag: tag, Type: desc}
	switch desc.ID {
	case TypeString:
		idx, err := c.u32()
		if err != nil {
			return nil, err
		}
		v.Str, err = table.At(idx)
		if err != nil {
			return nil, err
		}
	case TypeByteArray:
		length, err := c.u32()
		if err != nil {
			return nil, err
		}
		raw, err := c.bytes(int(length))
		if err != nil {
			return nil, err
		}
		v.Bytes = append([]byte(nil), raw...)
	default:
		for _, f := range desc.Fields {
			fv, err := readField(c, f.Format)
			if err != nil {
				return nil, err
			}
			v.Fields = append(v.Fields, fv)
		}
	}
	return v, nil
}

func readField(c *cursor, f Format) (FieldValue, error) {
	switch f {
	case FormatU8, FormatBool:
		b, err := c.u8()
		return FieldValue{Uint: uint64(b)}, err
	case FormatU16:
		v, err := c.u16()
		return FieldValue{Uint: uint64(v)}, err
	case FormatU32:
		v, err := c.u32()
		return FieldValue{Uint: uint64(v)}, err
	case FormatU64:
		v, err := c.u64()
		return FieldValue{Uint: v}, err
	case FormatF32:
		v, err := c.f32()
		return FieldValue{Float: v}, err
	}
	return FieldValue{}, fmt.Errorf("%w: unhandled field format %d", ErrUnknownType, f)
}
