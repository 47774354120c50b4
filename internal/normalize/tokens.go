package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Word tokens: runs of letters, digits and underscore (unicode aware \w)
var reWord = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Whitespace-delimited fields
var reField = regexp.MustCompile(`\S+`)

// Span is a substring of the original input with its byte offsets.
type Span struct {
	Text  string
	Start int
	End   int
}

// Piece is a normalized token plus the byte offsets of the text it came from.
// Norm is lower-cased with dots and apostrophes removed and "and" unified to "&".
type Piece struct {
	Norm  string
	Start int
	End   int
}

// Words returns the lower-cased word tokens of s
func Words(s string) []string {
	return reWord.FindAllString(strings.ToLower(s), -1)
}

// Fields splits s on whitespace and keeps the offsets of every field
func Fields(s string) []Span {
	locs := reField.FindAllStringIndex(s, -1)
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{Text: s[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	return spans
}

// Pieces normalizes s into comparison tokens.
//
// Whitespace and punctuation other than '.', '\'' and '&' end a piece. Dots and
// apostrophes are dropped without ending the piece, so "s.r.o." becomes "sro"
// and "Co.," becomes "co". A piece spelled "and" is rewritten to "&".
func Pieces(s string) []Piece {
	var pieces []Piece
	var b strings.Builder
	start, end := -1, -1

	flush := func() {
		if b.Len() > 0 {
			norm := b.String()
			if norm == "and" {
				norm = "&"
			}
			pieces = append(pieces, Piece{Norm: norm, Start: start, End: end})
		}
		b.Reset()
		start, end = -1, -1
	}

	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&':
			if start < 0 {
				start = i
			}
			b.WriteRune(unicode.ToLower(r))
			end = i + utf8.RuneLen(r)
		case r == '.' || r == '\'' || r == '’':
			// joins abbreviations, never splits
		default:
			flush()
		}
	}
	flush()

	return pieces
}

// Norms returns just the normalized text of pieces
func Norms(pieces []Piece) []string {
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = p.Norm
	}
	return out
}

// NormalizeToken returns the normalized form of a single token, joining any
// pieces it breaks into with a space. "Co.," -> "co", "AND" -> "&".
func NormalizeToken(tok string) string {
	return strings.Join(Norms(Pieces(tok)), " ")
}

// TrimName strips trailing whitespace, commas and periods left behind once a
// suffix is cut from a name
func TrimName(s string) string {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == ','
	})
	return strings.TrimSpace(s)
}
