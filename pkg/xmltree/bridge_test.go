package xmltree

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scraptools/txml/pkg/txml"
)

func typeByName(t *testing.T, name string) *txml.TypeDescriptor {
	t.Helper()
	desc, err := txml.TypeByName(name)
	require.NoError(t, err)
	return desc
}

func parseXML(t *testing.T, text string) *txml.Document {
	t.Helper()
	doc, err := Unmarshal([]byte(text))
	require.NoError(t, err)
	return doc
}

func TestToXML_StructuralNode(t *testing.T) {
	doc := &txml.Document{Root: &txml.Node{
		Tag:   "scene",
		Attrs: []txml.Attr{{Key: "name", Value: "hangar"}},
		Children: []*txml.Node{
			{Tag: "layer"},
		},
	}}

	out := ToXML(doc)
	root := out.Root()
	require.NotNil(t, root)
	assert.Equal(t, "scene", root.Tag)
	assert.Equal(t, "hangar", root.SelectAttrValue("name", ""))
	require.Len(t, root.ChildElements(), 1)
	assert.Equal(t, "layer", root.ChildElements()[0].Tag)
}

func TestToXML_ValueRendering(t *testing.T) {
	testCases := []struct {
		name  string
		value *txml.Value
		attrs map[string]string
	}{
		{
			name: "integer decimal",
			value: &txml.Value{
				Tag: "count", Type: typeByName(t, "integer"),
				Fields: []txml.FieldValue{{Uint: 42}},
			},
			attrs: map[string]string{"type": "integer", "value": "42"},
		},
		{
			name: "bool literal",
			value: &txml.Value{
				Tag: "enabled", Type: typeByName(t, "bool"),
				Fields: []txml.FieldValue{{Uint: 0}},
			},
			attrs: map[string]string{"type": "bool", "value": "false"},
		},
		{
			name: "color uppercase hex channels",
			value: &txml.Value{
				Tag: "tint", Type: typeByName(t, "color"),
				Fields: []txml.FieldValue{{Uint: 0xDE}, {Uint: 0x0A}, {Uint: 0x00}, {Uint: 0xFF}},
			},
			attrs: map[string]string{"type": "color", "r": "DE", "g": "0A", "b": "00", "a": "FF"},
		},
		{
			name: "byte array hex pairs",
			value: &txml.Value{
				Tag: "data", Type: typeByName(t, "byte_array"),
				Bytes: []byte{0xDE, 0xAD, 0xBE, 0xEF},
			},
			attrs: map[string]string{"type": "byte_array", "value": "DE AD BE EF"},
		},
		{
			name: "string verbatim",
			value: &txml.Value{
				Tag: "label", Type: typeByName(t, "string"),
				Str: "spawn point",
			},
			attrs: map[string]string{"type": "string", "value": "spawn point"},
		},
		{
			name: "point fields",
			value: &txml.Value{
				Tag: "pos", Type: typeByName(t, "2d_point_f"),
				Fields: []txml.FieldValue{{Float: 1.5}, {Float: -2.5}},
			},
			attrs: map[string]string{"type": "2d_point_f", "x": "1.5", "y": "-2.5"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := ToXML(&txml.Document{Root: &txml.Node{
				Tag:    "root",
				Values: []*txml.Value{tc.value},
			}})
			elems := out.Root().ChildElements()
			require.Len(t, elems, 1)
			e := elems[0]
			assert.Equal(t, tc.value.Tag, e.Tag)
			assert.Len(t, e.Attr, len(tc.attrs))
			for k, v := range tc.attrs {
				assert.Equal(t, v, e.SelectAttrValue(k, "<missing>"), "attribute %s", k)
			}
		})
	}
}

func TestToXML_DropsNamespaceAttributes(t *testing.T) {
	doc := &txml.Document{Root: &txml.Node{
		Tag: "root",
		Attrs: []txml.Attr{
			{Key: "xmlns", Value: "urn:example"},
			{Key: "xmlns:x", Value: "urn:other"},
			{Key: "name", Value: "kept"},
		},
	}}

	root := ToXML(doc).Root()
	require.Len(t, root.Attr, 1)
	assert.Equal(t, "name", root.Attr[0].Key)
}

func TestFromXML_ValueClassification(t *testing.T) {
	doc := parseXML(t, `<root id="7">
		<pos type="2d_point_i" x="3" y="4"/>
		<group type="custom"><child/></group>
		<thing type="unregistered"/>
	</root>`)

	root := doc.Root
	assert.Equal(t, []txml.Attr{{Key: "id", Value: "7"}}, root.Attrs)

	// Only the childless element with a registered type name is a value.
	require.Len(t, root.Values, 1)
	pos := root.Values[0]
	assert.Equal(t, "pos", pos.Tag)
	assert.Equal(t, txml.Type2DPointI, pos.Type.ID)
	assert.Equal(t, uint64(3), pos.Fields[0].Uint)
	assert.Equal(t, uint64(4), pos.Fields[1].Uint)

	// An element with children keeps its type attribute as a plain string;
	// so does a childless element whose type name is not registered.
	require.Len(t, root.Children, 2)
	assert.Equal(t, []txml.Attr{{Key: "type", Value: "custom"}}, root.Children[0].Attrs)
	assert.Equal(t, []txml.Attr{{Key: "type", Value: "unregistered"}}, root.Children[1].Attrs)
}

func TestFromXML_ByteArray(t *testing.T) {
	doc := parseXML(t, `<root><data type="byte_array" value="DE AD BE EF"/></root>`)

	require.Len(t, doc.Root.Values, 1)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, doc.Root.Values[0].Bytes)
}

func TestFromXML_EmptyByteArray(t *testing.T) {
	doc := parseXML(t, `<root><data type="byte_array" value=""/></root>`)

	require.Len(t, doc.Root.Values, 1)
	assert.Empty(t, doc.Root.Values[0].Bytes)
}

func TestFromXML_BoolLiterals(t *testing.T) {
	for literal, want := range map[string]uint64{"true": 1, "1": 1, "false": 0, "0": 0} {
		doc := parseXML(t, `<root><b type="bool" value="`+literal+`"/></root>`)
		require.Len(t, doc.Root.Values, 1)
		assert.Equal(t, want, doc.Root.Values[0].Fields[0].Uint, "literal %q", literal)
	}

	// The reference tool treated any non-empty text as true; here anything
	// outside the explicit token set is rejected.
	for _, literal := range []string{"yes", "TRUE", "2", " true"} {
		_, err := Unmarshal([]byte(`<root><b type="bool" value="` + literal + `"/></root>`))
		assert.ErrorIs(t, err, txml.ErrMalformedLiteral, "literal %q", literal)
	}
}

func TestFromXML_MalformedLiterals(t *testing.T) {
	testCases := []struct {
		name string
		xml  string
	}{
		{"bad hex pair", `<root><d type="byte_array" value="DE AX"/></root>`},
		{"hex pair wrong width", `<root><d type="byte_array" value="DEA"/></root>`},
		{"bad integer", `<root><n type="integer" value="seven"/></root>`},
		{"integer overflow", `<root><n type="short" value="70000"/></root>`},
		{"bad float", `<root><f type="float" value="fast"/></root>`},
		{"bad color channel", `<root><c type="color" r="ZZ" g="00" b="00" a="00"/></root>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.xml))
			assert.ErrorIs(t, err, txml.ErrMalformedLiteral)
		})
	}
}

func TestFromXML_AttributeArity(t *testing.T) {
	testCases := []struct {
		name string
		xml  string
	}{
		{"missing field", `<root><pos type="2d_point_i" x="3"/></root>`},
		{"extra field", `<root><pos type="2d_point_i" x="3" y="4" z="5"/></root>`},
		{"renamed field", `<root><pos type="2d_point_i" x="3" w="4"/></root>`},
		{"string without value", `<root><s type="string" other="x"/></root>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.xml))
			assert.ErrorIs(t, err, txml.ErrAttributeArity)
		})
	}
}

func TestFromXML_NoRoot(t *testing.T) {
	empty := etree.NewDocument()
	_, err := FromXML(empty)
	assert.Error(t, err)
}

func TestUnmarshal_InvalidXML(t *testing.T) {
	_, err := Unmarshal([]byte(`<root><unclosed></root>`))
	assert.Error(t, err)
}

func TestMarshal_ProducesParseableXML(t *testing.T) {
	doc := &txml.Document{Root: &txml.Node{
		Tag:   "root",
		Attrs: []txml.Attr{{Key: "id", Value: "7"}},
		Values: []*txml.Value{{
			Tag: "pos", Type: typeByName(t, "2d_point_i"),
			Fields: []txml.FieldValue{{Uint: 3}, {Uint: 4}},
		}},
	}}

	text, err := Marshal(doc, 2)
	require.NoError(t, err)

	back, err := Unmarshal(text)
	require.NoError(t, err)
	assert.Equal(t, doc.Root, back.Root)
}
