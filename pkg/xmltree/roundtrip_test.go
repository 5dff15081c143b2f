package xmltree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/scraptools/txml/pkg/txml"
)

// buildFixtureTree assembles a tree exercising every value type alongside
// nested structure and repeated strings.
func buildFixtureTree(t *testing.T) *txml.Document {
	t.Helper()

	value := func(tag, typeName string, fields ...txml.FieldValue) *txml.Value {
		return &txml.Value{Tag: tag, Type: typeByName(t, typeName), Fields: fields}
	}

	return &txml.Document{Root: &txml.Node{
		Tag:   "scene",
		Attrs: []txml.Attr{{Key: "name", Value: "hangar"}, {Key: "version", Value: "2"}},
		Values: []*txml.Value{
			value("count", "integer", txml.FieldValue{Uint: 42}),
			value("scale", "float", txml.FieldValue{Float: 0.5}),
			{Tag: "label", Type: typeByName(t, "string"), Str: "main hangar"},
			value("visible", "bool", txml.FieldValue{Uint: 1}),
			value("seed", "long", txml.FieldValue{Uint: 1<<40 + 9}),
			value("cell", "2d_point_i", txml.FieldValue{Uint: 3}, txml.FieldValue{Uint: 4}),
			value("offset", "2d_point_f", txml.FieldValue{Float: 1.5}, txml.FieldValue{Float: -2.5}),
			value("origin", "3d_point_f", txml.FieldValue{Float: 1}, txml.FieldValue{Float: 2}, txml.FieldValue{Float: 3}),
			value("tint", "color", txml.FieldValue{Uint: 0xDE}, txml.FieldValue{Uint: 0xAD}, txml.FieldValue{Uint: 0xBE}, txml.FieldValue{Uint: 0xEF}),
			{Tag: "payload", Type: typeByName(t, "byte_array"), Bytes: []byte{0x00, 0x01, 0xFE, 0xFF}},
			value("extent", "size", txml.FieldValue{Uint: 640}, txml.FieldValue{Uint: 480}),
			value("bounds", "rectangle", txml.FieldValue{Uint: 1}, txml.FieldValue{Uint: 2}, txml.FieldValue{Uint: 3}, txml.FieldValue{Uint: 4}),
			value("flags", "short", txml.FieldValue{Uint: 513}),
		},
		Children: []*txml.Node{
			{
				Tag:   "layer",
				Attrs: []txml.Attr{{Key: "name", Value: "ground"}},
				Children: []*txml.Node{
					{Tag: "object", Values: []*txml.Value{
						{Tag: "label", Type: typeByName(t, "string"), Str: "spawn point"},
					}},
				},
			},
			{Tag: "layer", Attrs: []txml.Attr{{Key: "name", Value: "sky"}}},
		},
	}}
}

// TestRoundTrip_BinaryXMLBinary is the central reversibility property:
// decode, render to XML, parse the XML back, re-encode, decode again, and
// the tree must be structurally identical to the first decode. The binary
// outputs need not be byte-identical (string table order may differ), but
// within a single cycle every payload survives exactly.
func TestRoundTrip_BinaryXMLBinary(t *testing.T) {
	original, err := txml.Encode(buildFixtureTree(t))
	require.NoError(t, err)

	first, err := txml.Decode(original)
	require.NoError(t, err)

	text, err := Marshal(first, 2)
	require.NoError(t, err)

	parsed, err := Unmarshal(text)
	require.NoError(t, err)

	reencoded, err := txml.Encode(parsed)
	require.NoError(t, err)

	second, err := txml.Decode(reencoded)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Root, second.Root); diff != "" {
		t.Errorf("tree changed across round trip (-first +second):\n%s", diff)
	}
}

func TestRoundTrip_ByteArrayScenario(t *testing.T) {
	doc := parseXML(t, `<root><data type="byte_array" value="DE AD BE EF"/></root>`)

	encoded, err := txml.Encode(doc)
	require.NoError(t, err)
	decoded, err := txml.Decode(encoded)
	require.NoError(t, err)

	require.Len(t, decoded.Root.Values, 1)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, decoded.Root.Values[0].Bytes)
}

func TestRoundTrip_EmptyRootScenario(t *testing.T) {
	first, err := txml.Decode(mustEncodeEmptyRoot(t))
	require.NoError(t, err)

	text, err := Marshal(first, 2)
	require.NoError(t, err)
	parsed, err := Unmarshal(text)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Root, parsed.Root); diff != "" {
		t.Errorf("tree changed across XML bridge (-decoded +parsed):\n%s", diff)
	}
}

func mustEncodeEmptyRoot(t *testing.T) []byte {
	t.Helper()
	data, err := txml.Encode(&txml.Document{Root: &txml.Node{Tag: "root"}})
	require.NoError(t, err)
	return data
}
