package render

import "strings"

// tokenKind discriminates lexed template chunks.
type tokenKind int

const (
	literalChunk tokenKind = iota
	variableChunk
)

// chunk is a single lexed piece of template text: either literal bytes
// or a variable reference.
type chunk struct {
	kind tokenKind
	// text is literal bytes for literalChunk and the identifier
	// for variableChunk.
	text string
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// lexIdent reads an identifier from the beginning of s.
// Identifier must start with a letter and may contain letters,
// digits and underscores. Returns the identifier and its length.
func lexIdent(s string) (string, int, bool) {
	if len(s) == 0 || !isLetter(s[0]) {
		return "", 0, false
	}
	i := 1
	for i < len(s) && (isLetter(s[i]) || isDigit(s[i]) || s[i] == '_') {
		i++
	}
	return s[:i], i, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lex splits template text into literal and variable chunks.
// Doubled delimiters are unescaped to single ones. An opening delimiter
// not followed by a well-formed identifier and a closing delimiter is
// treated as literal text.
func lex(in string) []chunk {
	var chunks []chunk
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			chunks = append(chunks, chunk{literalChunk, literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(in) {
		rest := in[i:]
		switch {
		case strings.HasPrefix(rest, openDelim+openDelim):
			literal.WriteString(openDelim)
			i += 4
		case strings.HasPrefix(rest, closeDelim+closeDelim):
			literal.WriteString(closeDelim)
			i += 4
		case strings.HasPrefix(rest, openDelim):
			name, n, ok := lexIdent(rest[2:])
			if ok && strings.HasPrefix(rest[2+n:], closeDelim) {
				flush()
				chunks = append(chunks, chunk{variableChunk, name})
				i += 2 + n + 2
				break
			}
			literal.WriteByte(in[i])
			i++
		default:
			literal.WriteByte(in[i])
			i++
		}
	}
	flush()

	return chunks
}

// Identifiers returns all variable identifiers referenced in text,
// in order of first occurrence, without duplicates.
func Identifiers(text string) []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range lex(text) {
		if c.kind == variableChunk && !seen[c.text] {
			seen[c.text] = true
			names = append(names, c.text)
		}
	}
	return names
}

// HasToken reports whether text contains at least one well-formed
// variable token.
func HasToken(text string) bool {
	for _, c := range lex(text) {
		if c.kind == variableChunk {
			return true
		}
	}
	return false
}
