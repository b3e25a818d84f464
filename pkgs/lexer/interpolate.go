package lexer

// SegmentKind tags one span of a split string.
type SegmentKind int

const (
	SegLiteral  SegmentKind = iota // plain text, emitted verbatim
	SegVariable                    // ${name} or $name reference, unevaluated
)

// Segment is one ordered span of a quoted string: either literal text or a
// variable reference. Splitting never merges adjacent spans and never
// evaluates anything; evaluation belongs to the external variable scope.
type Segment struct {
	Kind SegmentKind
	Text string // literal text, or the variable name without $/braces
}

func (s Segment) String() string {
	if s.Kind == SegVariable {
		return "${" + s.Text + "}"
	}
	return s.Text
}

// Split decomposes the raw content of a STRING token into ordered segments.
// Single-quoted strings never interpolate and come back as one literal
// segment; this is the fast path for plain titles like /tmp/one. Double
// quotes honor both ${name} and bare $name spans, where a bare name runs to
// the first non-identifier character.
//
// pos is the position of the string token, used for diagnostics on an
// unterminated ${ span.
func Split(raw string, quote byte, pos Position) ([]Segment, error) {
	if quote != '"' {
		return []Segment{{Kind: SegLiteral, Text: raw}}, nil
	}

	var segments []Segment
	var literal []byte

	flush := func() {
		if len(literal) > 0 {
			segments = append(segments, Segment{Kind: SegLiteral, Text: string(literal)})
			literal = literal[:0]
		}
	}

	for i := 0; i < len(raw); {
		ch := raw[i]
		if ch != '$' {
			literal = append(literal, ch)
			i++
			continue
		}

		// ${name}
		if i+1 < len(raw) && raw[i+1] == '{' {
			end := i + 2
			for end < len(raw) && raw[end] != '}' {
				end++
			}
			if end == len(raw) {
				return nil, &LexError{Message: "unterminated '${' in string", Pos: pos}
			}
			flush()
			segments = append(segments, Segment{Kind: SegVariable, Text: raw[i+2 : end]})
			i = end + 1
			continue
		}

		// $name
		if i+1 < len(raw) && raw[i+1] < 128 && isIdentStart[raw[i+1]] {
			end := i + 1
			for end < len(raw) && raw[end] < 128 && isIdentPart[raw[end]] {
				end++
			}
			flush()
			segments = append(segments, Segment{Kind: SegVariable, Text: raw[i+1 : end]})
			i = end
			continue
		}

		// Lone $ with nothing interpolatable after it stays literal.
		literal = append(literal, ch)
		i++
	}
	flush()

	// A string with no spans at all is a single literal segment equal to
	// the whole string, including the empty string.
	if len(segments) == 0 {
		segments = append(segments, Segment{Kind: SegLiteral, Text: raw})
	}
	return segments, nil
}
