package suffix

import (
	"fmt"
	"io"
	"strings"

	"github.com/coltype/internal/normalize"
)

// Explanation is a debugging view of a single Split call.
type Explanation struct {
	Input      string
	Fields     []string  // whitespace-delimited tokens of the input
	Normalized []string  // normalized form of each field, same length as Fields
	Candidates []Pattern // highest-priority suffixes, at most the requested number
	Match      *Match
	Result     Split
}

// Explain reports how value is tokenized and which suffix, if any, it matched.
// top limits the candidate list; zero or less means 20.
func (m *Matcher) Explain(value string, top int) Explanation {
	if top <= 0 {
		top = 20
	}

	trimmed := strings.TrimSpace(value)
	exp := Explanation{Input: value, Result: m.Split(value)}

	for _, span := range normalize.Fields(trimmed) {
		exp.Fields = append(exp.Fields, span.Text)
		exp.Normalized = append(exp.Normalized, normalize.NormalizeToken(span.Text))
	}

	if top > len(m.patterns) {
		top = len(m.patterns)
	}
	exp.Candidates = append(exp.Candidates, m.patterns[:top]...)

	if match, ok := m.match(normalize.Pieces(trimmed)); ok {
		exp.Match = &match
	}

	return exp
}

// Write prints the explanation in a plain-text layout.
func (e Explanation) Write(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "INPUT:       %q\n", e.Input)
	fmt.Fprintf(&b, "TOKENS:      %q\n", e.Fields)
	fmt.Fprintf(&b, "NORMALIZED:  %q\n", e.Normalized)
	b.WriteString("CANDIDATES:\n")
	for i, p := range e.Candidates {
		fmt.Fprintf(&b, " %3d. %-24s (%s)\n", i+1, p.Key, p.Raw)
	}
	if e.Match != nil {
		kind := "tokens"
		if e.Match.Initials {
			kind = "initials"
		}
		fmt.Fprintf(&b, "MATCHED:     %q at byte %d via %s\n", e.Match.Pattern.Key, e.Match.Start, kind)
	} else {
		b.WriteString("MATCHED:     none\n")
	}
	fmt.Fprintf(&b, "RESULT:      name=%q legal=%q\n", e.Result.Name, e.Result.Legal)

	_, err := io.WriteString(w, b.String())
	return err
}
