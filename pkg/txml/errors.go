package txml

// Errors
var (
	ErrHeaderMismatch     = &FormatError{"header mismatch"}
	ErrUnknownType        = &FormatError{"unknown value type"}
	ErrStringTableCorrupt = &FormatError{"string table corrupt"}
	ErrTrailingData       = &FormatError{"trailing data after root node"}
	ErrAttributeArity     = &FormatError{"attribute count mismatch"}
	ErrMalformedLiteral   = &FormatError{"malformed literal"}
	ErrTruncated          = &FormatError{"unexpected end of data"}
)

// FormatError represents a fatal decode or encode error. All format errors
// wrap one of the sentinel values above, so callers can classify them with
// errors.Is.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}
