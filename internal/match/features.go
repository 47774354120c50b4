package match

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coltype/internal/normalize"
	"github.com/coltype/internal/refdata"
	"github.com/coltype/internal/suffix"
)

const months = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
const weekdays = `(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)`

// Phone number shapes. A value may match several; the count is the signal.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+\d{1,3}\s?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`), // international NANP-style
	regexp.MustCompile(`^\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`),             // (475) 216-2114
	regexp.MustCompile(`^\d{4}\s?\d{6,7}$`),                                 // Indian style
	regexp.MustCompile(`^\+\d{1,3}\s?\d{6,10}$`),                            // compact international
	regexp.MustCompile(`^\(?\d+\)?[\s.-]?\d+[\s.-]?\d+$`),                   // generic grouped digits
}

// Date shapes
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	regexp.MustCompile(`(?i)^(?:January|February|March|April|May|June|July|August|September|October|November|December)\s\d{1,2},\s\d{4}$`),
	regexp.MustCompile(`(?i)^\d{1,2}\s` + months + `\s\d{4}$`),
	regexp.MustCompile(`(?i)^\d{1,2}(?:st|nd|rd|th)?\s` + months + `\s\d{4}$`),
	regexp.MustCompile(`(?i)^` + months + `\s\d{1,2}(?:st|nd|rd|th)?,\s\d{4}$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
	regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`),
	regexp.MustCompile(`(?i)^` + weekdays + `\s\d{1,2}(?:st|nd|rd|th)?\s` + months + `\s\d{4}$`),
	regexp.MustCompile(`(?i)^` + weekdays + `\s` + months + `\s\d{1,2}(?:st|nd|rd|th)?\s\d{4}$`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`),
	regexp.MustCompile(`(?i)\b(?:` + weekdays + `\s+)?` + months + `[a-z]*\s+\d{1,2}(?:st|nd|rd|th)?[\s,]*\d{4}\b`),
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// FeatureExtractor computes per-value lexical features. It holds only
// read-only reference data and is safe for concurrent use.
type FeatureExtractor struct {
	refs     *refdata.Sets
	suffixes *suffix.Matcher
}

// NewFeatureExtractor creates an extractor over refs. The suffix matcher is
// shared with company-name splitting; pass nil to build one from refs.
func NewFeatureExtractor(refs *refdata.Sets, suffixes *suffix.Matcher) *FeatureExtractor {
	if refs == nil {
		refs = refdata.Empty()
	}
	if suffixes == nil {
		suffixes = suffix.New(refs.LegalSuffixes())
	}
	return &FeatureExtractor{refs: refs, suffixes: suffixes}
}

// Extract returns one vector per value, in input order
func (fe *FeatureExtractor) Extract(values []string) []FeatureVector {
	vectors := make([]FeatureVector, len(values))
	for i, v := range values {
		vectors[i] = fe.ExtractValue(v)
	}
	return vectors
}

// ExtractValue computes the features of a single value. Blank input yields
// the zero vector.
func (fe *FeatureExtractor) ExtractValue(value string) FeatureVector {
	var fv FeatureVector

	value = strings.TrimSpace(value)
	if value == "" {
		return fv
	}

	// Character level
	var runes, digits int
	for _, r := range value {
		runes++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	fv.NumericFraction = float64(digits) / float64(runes)
	fv.HasPlus = strings.ContainsRune(value, '+')
	fv.HasParentheses = strings.ContainsAny(value, "()")
	fv.HasDash = strings.ContainsRune(value, '-')
	fv.HasSlash = strings.ContainsRune(value, '/')

	// Token level
	tokens := normalize.Words(value)
	if len(tokens) > 0 {
		seen := make(map[string]struct{}, len(tokens))
		total := 0
		for _, tok := range tokens {
			n := utf8.RuneCountInString(tok)
			total += n
			if n > fv.MaxTokenLen {
				fv.MaxTokenLen = n
			}
			seen[tok] = struct{}{}
		}
		fv.AvgTokenLen = float64(total) / float64(len(tokens))
		fv.UniqueTokens = len(seen)
		if fe.containsCountry(tokens) {
			fv.IsCountry = 1
		}
	}

	// Dictionary
	if _, ok := fe.suffixes.Match(value); ok {
		fv.HasLegalSuffix = 1
	}

	// Shapes
	for _, re := range phonePatterns {
		if re.MatchString(value) {
			fv.PhoneMatches++
		}
	}
	for _, re := range datePatterns {
		if re.MatchString(value) {
			fv.DateMatches++
		}
	}

	lower := strings.ToLower(value)
	for _, m := range monthNames {
		if strings.Contains(lower, m) {
			fv.HasMonthName = 1
			break
		}
	}

	return fv
}

// maxCountryWords bounds the token runs tried against the country list
// ("bosnia and herzegovina")
const maxCountryWords = 4

// containsCountry reports whether any token, or any short run of adjacent
// tokens, is a known country.
func (fe *FeatureExtractor) containsCountry(tokens []string) bool {
	for i := range tokens {
		key := tokens[i]
		if fe.refs.IsCountry(key) {
			return true
		}
		for n := 2; n <= maxCountryWords && i+n <= len(tokens); n++ {
			key += " " + tokens[i+n-1]
			if fe.refs.IsCountry(key) {
				return true
			}
		}
	}
	return false
}

// Stringify renders an arbitrary decoded value (JSON number, bool, nil) as
// the string the extractor should see.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
