// Package txml implements a reversible codec for the proprietary
// "txml binv2.0" binary tree format found in game data files.
//
// A binv2 file stores a single rooted tree of named nodes. Each node carries
// string attributes, typed leaf values, and nested sub-nodes. Every string
// in the file is deduplicated into one interned string table written once
// per file; nodes reference strings only by dense table index.
//
// # File Layout
//
// All integers are little-endian.
//
//	offset  field           size
//	0       magic           12      ASCII "txml binv2.0"
//	12      unknown         4       opaque, preserved verbatim
//	16      spacer          16      must be all zero
//	32      NR_STRINGS      4       u32 string count
//	36      STRINGS_SIZE    4       u32 total byte length of all strings
//	40      string records  8×N     (offset:u32, length:u32) per string,
//	                                offsets relative to the blob start
//	...     string blob     STRINGS_SIZE
//	...     root node       variable
//
// A node is encoded as its tag index, an attribute count followed by
// (key index, value index) pairs, a value count followed by typed values,
// and a child count followed by the recursively encoded children.
//
// # Value Types
//
// The registry of value types is closed; an id or name outside it is a
// fatal error, since the byte width of the rest of the stream cannot be
// known without the descriptor.
//
//	id  name        payload
//	0   integer     u32
//	1   float       f32
//	2   string      u32 string-table index
//	3   bool        1 byte
//	4   long        u64
//	5   2d_point_i  u32 x, u32 y
//	6   2d_point_f  f32 x, f32 y
//	7   3d_point_f  f32 x, f32 y, f32 z
//	8   color       u8 r, u8 g, u8 b, u8 a
//	9   byte_array  u32 length + raw bytes
//	10  size        u32 width, u32 height
//	11  rectangle   u32 x, u32 y, u32 width, u32 height
//	12  short       u16
//
// # Usage
//
// The codec operates entirely on in-memory buffers:
//
//	doc, err := txml.Decode(data)
//	if err != nil {
//	    return err
//	}
//	out, err := txml.Encode(doc)
//
// # Error Handling
//
// All failures are fatal and reproducible; Decode and Encode never return a
// partial result. Errors wrap a small set of sentinel values
// (ErrHeaderMismatch, ErrUnknownType, ErrStringTableCorrupt,
// ErrTrailingData, ErrAttributeArity, ErrMalformedLiteral, ErrTruncated)
// so callers can classify them with errors.Is. The trailing-data check
// after the root node is the primary self-check that the recursive
// structure was consumed correctly.
//
// # Round Trips
//
// Decode followed by Encode guarantees semantic equivalence, not identical
// bytes: the writer rebuilds the string table with its own traversal order.
// The 4-byte header field of unknown meaning is preserved on Document for
// decode→encode round trips; documents built from XML leave it zeroed.
//
// # Concurrency
//
// The codec is synchronous and shares no state between calls; each call
// owns its own cursor, table, and tree. Concurrent conversions on separate
// buffers need no coordination.
package txml
