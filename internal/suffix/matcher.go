// Package suffix finds the trailing legal-entity designation of a company
// name ("GmbH & Co. KG", "pvt ltd.", "s.r.o.") and splits it from the base name.
//
// Matching works on normalized tokens rather than regular expressions. Every
// known suffix is reduced to a token sequence once, indexed by token count, and
// the input is compared against its trailing tokens from the longest candidate
// length down. Cost is linear in the number of input tokens and independent of
// the size of the suffix list.
package suffix

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/coltype/internal/normalize"
)

// Pattern is one known legal suffix in normalized form.
type Pattern struct {
	Tokens []string
	Key    string // Tokens joined by a single space
	Raw    string // longest raw spelling seen for Key
}

// Split is the result of separating a company name from its legal suffix.
type Split struct {
	Name  string `json:"name"`
	Legal string `json:"legal"`
}

// Match describes a successful suffix lookup.
type Match struct {
	Pattern Pattern
	// Start is the byte offset of the suffix within the trimmed input.
	Start int
	// Initials is set when the match came from spaced single letters
	// ("s. r. o.") rather than an exact token sequence.
	Initials bool
}

// Matcher is immutable after New and safe for concurrent use.
type Matcher struct {
	patterns []Pattern
	byLen    map[int]map[string]int // token count -> key -> index into patterns
	initials map[string]int         // single-token keys of two or more runes
	maxLen   int
}

// New builds a matcher from raw suffix strings. Suffixes that normalize to
// the same token sequence are merged, keeping the longest raw spelling.
func New(suffixes []string) *Matcher {
	byKey := make(map[string]Pattern, len(suffixes))
	for _, raw := range suffixes {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var tokens []string
		for _, field := range strings.Fields(raw) {
			tokens = append(tokens, normalize.Norms(normalize.Pieces(field))...)
		}
		if len(tokens) == 0 {
			continue
		}

		key := strings.Join(tokens, " ")
		if prev, ok := byKey[key]; ok && len(prev.Raw) >= len(raw) {
			continue
		}
		byKey[key] = Pattern{Tokens: tokens, Key: key, Raw: raw}
	}

	m := &Matcher{
		patterns: make([]Pattern, 0, len(byKey)),
		byLen:    make(map[int]map[string]int),
		initials: make(map[string]int),
	}
	for _, p := range byKey {
		m.patterns = append(m.patterns, p)
	}
	sort.Slice(m.patterns, func(i, j int) bool {
		a, b := m.patterns[i], m.patterns[j]
		if len(a.Tokens) != len(b.Tokens) {
			return len(a.Tokens) > len(b.Tokens)
		}
		if len(a.Key) != len(b.Key) {
			return len(a.Key) > len(b.Key)
		}
		return a.Key < b.Key
	})

	for i, p := range m.patterns {
		n := len(p.Tokens)
		if m.byLen[n] == nil {
			m.byLen[n] = make(map[string]int)
		}
		m.byLen[n][p.Key] = i
		if n > m.maxLen {
			m.maxLen = n
		}

		if n == 1 {
			if runes := utf8.RuneCountInString(p.Key); runes >= 2 {
				m.initials[p.Key] = i
				if runes > m.maxLen {
					m.maxLen = runes
				}
			}
		}
	}

	return m
}

// Patterns returns the normalized suffixes in match-priority order.
func (m *Matcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Len returns the number of distinct normalized suffixes.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Match looks for a legal suffix at the end of value. Only the trailing tokens
// are considered, so a suffix word in the middle of a name never matches.
func (m *Matcher) Match(value string) (Match, bool) {
	value = strings.TrimSpace(value)
	return m.match(normalize.Pieces(value))
}

func (m *Matcher) match(pieces []normalize.Piece) (Match, bool) {
	longest := m.maxLen
	if len(pieces) < longest {
		longest = len(pieces)
	}

	for n := longest; n >= 1; n-- {
		tail := pieces[len(pieces)-n:]

		if idx, ok := m.byLen[n][joinNorms(tail, " ")]; ok {
			return Match{Pattern: m.patterns[idx], Start: tail[0].Start}, true
		}

		if n >= 2 && singleRunes(tail) {
			if idx, ok := m.initials[joinNorms(tail, "")]; ok {
				return Match{Pattern: m.patterns[idx], Start: tail[0].Start, Initials: true}, true
			}
		}
	}

	return Match{}, false
}

// Split separates value into base name and legal suffix. The suffix keeps its
// original spelling; the name loses trailing whitespace, commas and periods.
// Without a match the trimmed value is returned as the name.
func (m *Matcher) Split(value string) Split {
	value = strings.TrimSpace(value)
	if value == "" {
		return Split{}
	}

	match, ok := m.match(normalize.Pieces(value))
	if !ok {
		return Split{Name: value}
	}

	return Split{
		Name:  normalize.TrimName(value[:match.Start]),
		Legal: strings.TrimSpace(value[match.Start:]),
	}
}

func joinNorms(pieces []normalize.Piece, sep string) string {
	if len(pieces) == 1 {
		return pieces[0].Norm
	}
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(p.Norm)
	}
	return b.String()
}

func singleRunes(pieces []normalize.Piece) bool {
	for _, p := range pieces {
		if utf8.RuneCountInString(p.Norm) != 1 {
			return false
		}
	}
	return true
}
