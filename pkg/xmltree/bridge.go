// Package xmltree converts decoded TXML documents to and from a generic XML
// element tree.
//
// The mapping is attribute-based: a structural node becomes an element whose
// attributes are its string attributes, and a typed value becomes a childless
// element carrying a `type` attribute plus one attribute per payload field.
// Numeric fields are rendered in decimal, per-byte fields as 2-digit
// uppercase hex, and byte arrays as space-joined uppercase hex pairs.
//
// Namespace declarations (`xmlns` and `xmlns:*` attributes) are dropped when
// producing XML from a decoded document. This is a known lossy
// simplification inherited from the reference tool, not an oversight.
package xmltree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/scraptools/txml/pkg/txml"
)

// ToXML converts a decoded document into an XML element tree.
func ToXML(doc *txml.Document) *etree.Document {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.AddChild(buildElement(doc.Root))
	return out
}

// Marshal renders a document as indented XML text.
func Marshal(doc *txml.Document, indent int) ([]byte, error) {
	out := ToXML(doc)
	out.Indent(indent)
	return out.WriteToBytes()
}

// FromXML converts an XML element tree into a document ready for encoding.
// The unknown header field is left zeroed; the XML surface does not carry it.
func FromXML(in *etree.Document) (*txml.Document, error) {
	root := in.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", txml.ErrMalformedLiteral)
	}
	node, err := parseElement(root)
	if err != nil {
		return nil, err
	}
	return &txml.Document{Root: node}, nil
}

// Unmarshal parses XML text into a document ready for encoding.
func Unmarshal(data []byte) (*txml.Document, error) {
	in := etree.NewDocument()
	if err := in.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", txml.ErrMalformedLiteral, err)
	}
	return FromXML(in)
}

func buildElement(n *txml.Node) *etree.Element {
	e := etree.NewElement(n.Tag)
	for _, a := range n.Attrs {
		if a.Key == "xmlns" || strings.HasPrefix(a.Key, "xmlns:") {
			continue
		}
		e.CreateAttr(a.Key, a.Value)
	}
	for _, v := range n.Values {
		e.AddChild(buildValueElement(v))
	}
	for _, child := range n.Children {
		e.AddChild(buildElement(child))
	}
	return e
}

func buildValueElement(v *txml.Value) *etree.Element {
	e := etree.NewElement(v.Tag)
	e.CreateAttr("type", v.Type.Name)
	switch v.Type.ID {
	case txml.TypeString:
		e.CreateAttr("value", v.Str)
	case txml.TypeByteArray:
		e.CreateAttr("value", formatBytes(v.Bytes))
	default:
		for i, f := range v.Type.Fields {
			e.CreateAttr(f.Name, formatField(f.Format, v.Fields[i]))
		}
	}
	return e
}

// parseElement decides whether an element is a typed value or a structural
// node: it is a value iff it has no child elements and carries a `type`
// attribute naming a registered value type. Anything else is structural,
// and a `type` attribute on a structural element stays an ordinary string
// attribute.
func parseElement(e *etree.Element) (*txml.Node, error) {
	n := &txml.Node{Tag: fullTag(e)}
	for _, a := range e.Attr {
		n.Attrs = append(n.Attrs, txml.Attr{Key: fullKey(a), Value: a.Value})
	}
	for _, child := range e.ChildElements() {
		if isValueElement(child) {
			v, err := parseValueElement(child)
			if err != nil {
				return nil, err
			}
			n.Values = append(n.Values, v)
			continue
		}
		sub, err := parseElement(child)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub)
	}
	return n, nil
}

func isValueElement(e *etree.Element) bool {
	if len(e.ChildElements()) > 0 {
		return false
	}
	name := e.SelectAttrValue("type", "")
	if name == "" {
		return false
	}
	_, err := txml.TypeByName(name)
	return err == nil
}

func parseValueElement(e *etree.Element) (*txml.Value, error) {
	desc, err := txml.TypeByName(e.SelectAttrValue("type", ""))
	if err != nil {
		return nil, err
	}
	v := &txml.Value{Tag: fullTag(e), Type: desc}

	// Expected attribute count is the descriptor's field count plus the
	// `type` attribute itself; string and byte_array carry a single `value`
	// attribute. Extra or missing attributes mean fields would be silently
	// fabricated or dropped.
	want := len(desc.Fields) + 1
	if desc.ID == txml.TypeString || desc.ID == txml.TypeByteArray {
		want = 2
	}
	if len(e.Attr) != want {
		return nil, fmt.Errorf("%w: element %q of type %s has %d attributes, want %d",
			txml.ErrAttributeArity, v.Tag, desc.Name, len(e.Attr), want)
	}

	switch desc.ID {
	case txml.TypeString:
		attr := e.SelectAttr("value")
		if attr == nil {
			return nil, fmt.Errorf("%w: element %q of type string has no value attribute", txml.ErrAttributeArity, v.Tag)
		}
		v.Str = attr.Value
	case txml.TypeByteArray:
		attr := e.SelectAttr("value")
		if attr == nil {
			return nil, fmt.Errorf("%w: element %q of type byte_array has no value attribute", txml.ErrAttributeArity, v.Tag)
		}
		v.Bytes, err = parseBytes(attr.Value)
		if err != nil {
			return nil, err
		}
	default:
		for _, f := range desc.Fields {
			attr := e.SelectAttr(f.Name)
			if attr == nil {
				return nil, fmt.Errorf("%w: element %q of type %s is missing field %q",
					txml.ErrAttributeArity, v.Tag, desc.Name, f.Name)
			}
			fv, err := parseField(f.Format, attr.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q of element %q: %w", f.Name, v.Tag, err)
			}
			v.Fields = append(v.Fields, fv)
		}
	}
	return v, nil
}

func formatField(f txml.Format, v txml.FieldValue) string {
	switch f {
	case txml.FormatBool:
		if v.Uint != 0 {
			return "true"
		}
		return "false"
	case txml.FormatU8:
		return fmt.Sprintf("%02X", v.Uint)
	case txml.FormatF32:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	default:
		return strconv.FormatUint(v.Uint, 10)
	}
}

// parseField parses one textual field per its binary format. Booleans accept
// only the explicit true/1 and false/0 tokens; the reference tool encoded
// any non-empty text as true, which turned the literal "false" into a true
// bit, so the lenient form is deliberately not supported.
func parseField(f txml.Format, s string) (txml.FieldValue, error) {
	switch f {
	case txml.FormatBool:
		switch s {
		case "true", "1":
			return txml.FieldValue{Uint: 1}, nil
		case "false", "0":
			return txml.FieldValue{}, nil
		}
		return txml.FieldValue{}, fmt.Errorf("%w: bad bool literal %q", txml.ErrMalformedLiteral, s)
	case txml.FormatU8:
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return txml.FieldValue{}, fmt.Errorf("%w: bad hex byte %q", txml.ErrMalformedLiteral, s)
		}
		return txml.FieldValue{Uint: v}, nil
	case txml.FormatU16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return txml.FieldValue{}, fmt.Errorf("%w: bad integer %q", txml.ErrMalformedLiteral, s)
		}
		return txml.FieldValue{Uint: v}, nil
	case txml.FormatU32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return txml.FieldValue{}, fmt.Errorf("%w: bad integer %q", txml.ErrMalformedLiteral, s)
		}
		return txml.FieldValue{Uint: v}, nil
	case txml.FormatU64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return txml.FieldValue{}, fmt.Errorf("%w: bad integer %q", txml.ErrMalformedLiteral, s)
		}
		return txml.FieldValue{Uint: v}, nil
	case txml.FormatF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return txml.FieldValue{}, fmt.Errorf("%w: bad float %q", txml.ErrMalformedLiteral, s)
		}
		return txml.FieldValue{Float: float32(v)}, nil
	}
	return txml.FieldValue{}, fmt.Errorf("%w: unhandled field format %d", txml.ErrMalformedLiteral, f)
}

// formatBytes renders a byte array as space-joined uppercase hex pairs.
func formatBytes(b []byte) string {
	var sb strings.Builder
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}

// parseBytes parses space-separated two-digit hex byte literals.
func parseBytes(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, tok := range fields {
		if len(tok) != 2 {
			return nil, fmt.Errorf("%w: bad byte literal %q", txml.ErrMalformedLiteral, tok)
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: bad byte literal %q", txml.ErrMalformedLiteral, tok)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func fullTag(e *etree.Element) string {
	if e.Space != "" {
		return e.Space + ":" + e.Tag
	}
	return e.Tag
}

func fullKey(a etree.Attr) string {
	if a.Space != "" {
		return a.Space + ":" + a.Key
	}
	return a.Key
}
