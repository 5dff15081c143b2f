package txml

import "fmt"

// TypeID identifies one of the 13 value-type layouts in the binv2 registry.
type TypeID uint32

const (
	TypeInteger TypeID = iota
	TypeFloat
	TypeString
	TypeBool
	TypeLong
	Type2DPointI
	Type2DPointF
	Type3DPointF
	TypeColor
	TypeByteArray
	TypeSize
	TypeRectangle
	TypeShort
)

// Format is the binary layout of a single descriptor field.
type Format uint8

const (
	FormatU8   Format = iota // one byte, rendered as a 2-digit uppercase hex pair
	FormatU16                // little-endian uint16, rendered as decimal
	FormatU32                // little-endian uint32, rendered as decimal
	FormatU64                // little-endian uint64, rendered as decimal
	FormatF32                // little-endian IEEE 754 float32
	FormatBool               // one byte, rendered as "true" or "false"
)

// Width returns the encoded size of the format in bytes.
func (f Format) Width() int {
	switch f {
	case FormatU8, FormatBool:
		return 1
	case FormatU16:
		return 2
	case FormatU32, FormatF32:
		return 4
	case FormatU64:
		return 8
	}
	return 0
}

// Field pairs a primitive binary format with the attribute name it is
// rendered under in the XML surface.
type Field struct {
	Format Format
	Name   string
}

// TypeDescriptor is one entry of the closed value-type registry: the numeric
// id used on the wire, the name used in XML `type` attributes, and the
// ordered field layout of the payload.
//
// Two entries carry no field list and are handled specially everywhere:
// TypeString (payload is a string-table index) and TypeByteArray (payload is
// a u32 length prefix followed by raw bytes).
type TypeDescriptor struct {
	ID     TypeID
	Name   string
	Fields []Field
}

// descriptors is the fixed registry. Order matches the wire type ids.
var descriptors = []TypeDescriptor{
	{ID: TypeInteger, Name: "integer", Fields: []Field{{FormatU32, "value"}}},
	{ID: TypeFloat, Name: "float", Fields: []Field{{FormatF32, "value"}}},
	{ID: TypeString, Name: "string"},
	{ID: TypeBool, Name: "bool", Fields: []Field{{FormatBool, "value"}}},
	{ID: TypeLong, Name: "long", Fields: []Field{{FormatU64, "value"}}},
	{ID: Type2DPointI, Name: "2d_point_i", Fields: []Field{{FormatU32, "x"}, {FormatU32, "y"}}},
	{ID: Type2DPointF, Name: "2d_point_f", Fields: []Field{{FormatF32, "x"}, {FormatF32, "y"}}},
	{ID: Type3DPointF, Name: "3d_point_f", Fields: []Field{{FormatF32, "x"}, {FormatF32, "y"}, {FormatF32, "z"}}},
	{ID: TypeColor, Name: "color", Fields: []Field{{FormatU8, "r"}, {FormatU8, "g"}, {FormatU8, "b"}, {FormatU8, "a"}}},
	{ID: TypeByteArray, Name: "byte_array"},
	{ID: TypeSize, Name: "size", Fields: []Field{{FormatU32, "width"}, {FormatU32, "height"}}},
	{ID: TypeRectangle, Name: "rectangle", Fields: []Field{{FormatU32, "x"}, {FormatU32, "y"}, {FormatU32, "width"}, {FormatU32, "height"}}},
	{ID: TypeShort, Name: "short", Fields: []Field{{FormatU16, "value"}}},
}

var descriptorsByName = func() map[string]*TypeDescriptor {
	m := make(map[string]*TypeDescriptor, len(descriptors))
	for i := range descriptors {
		m[descriptors[i].Name] = &descriptors[i]
	}
	return m
}()

// TypeByID looks up a descriptor by its wire type id.
func TypeByID(id TypeID) (*TypeDescriptor, error) {
	if int(id) >= len(descriptors) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownType, id)
	}
	return &descriptors[id], nil
}

// TypeByName looks up a descriptor by its XML type name.
func TypeByName(name string) (*TypeDescriptor, error) {
	d, ok := descriptorsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return d, nil
}
