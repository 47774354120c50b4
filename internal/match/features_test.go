package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coltype/internal/refdata"
)

func testRefs() *refdata.Sets {
	return refdata.New(
		[]string{"France", "Germany", "India", "United States", "Bosnia and Herzegovina"},
		[]string{"Ltd", "Pvt Ltd", "GmbH", "GmbH & Co. KG", "Inc.", "LLC", "s.r.o."},
	)
}

func TestExtractValuePhoneShapes(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	tests := []struct {
		input string
		want  int
	}{
		{"+14752162114", 2},
		{"(475) 216-2114", 2},
		{"9876543210", 3},
		{"+44 7911123456", 2},
		{"2023-01-15", 1},
		{"hello", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, fe.ExtractValue(tt.input).PhoneMatches)
		})
	}
}

func TestExtractValueDateShapes(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	tests := []struct {
		input     string
		wantCount int
		wantMonth int
	}{
		{"2023-01-15", 1, 0},
		{"12/25/2024", 1, 0},
		{"February 14, 2023", 2, 1},
		{"14 Feb 2023", 2, 0},
		{"Feb 14th, 2023", 2, 0},
		{"1-5-2023", 1, 0},
		{"2023.01.15", 1, 0},
		{"Tue 14th Feb 2023", 1, 0},
		{"1/5/23", 1, 0},
		{"Meeting in March", 0, 1},
		{"Random text", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fv := fe.ExtractValue(tt.input)
			assert.Equal(t, tt.wantCount, fv.DateMatches, "date matches")
			assert.Equal(t, tt.wantMonth, fv.HasMonthName, "month name")
		})
	}
}

func TestExtractValueLexical(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	fv := fe.ExtractValue("  (475) 216-2114 ")
	assert.InDelta(t, 10.0/14.0, fv.NumericFraction, 1e-9)
	assert.True(t, fv.HasParentheses)
	assert.True(t, fv.HasDash)
	assert.False(t, fv.HasPlus)
	assert.False(t, fv.HasSlash)
	assert.InDelta(t, 10.0/3.0, fv.AvgTokenLen, 1e-9)
	assert.Equal(t, 3, fv.UniqueTokens)
	assert.Equal(t, 4, fv.MaxTokenLen)

	fv = fe.ExtractValue("+1 a/b a")
	assert.True(t, fv.HasPlus)
	assert.True(t, fv.HasSlash)
	assert.Equal(t, 3, fv.UniqueTokens)
}

func TestExtractValueCountry(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	tests := []struct {
		input string
		want  int
	}{
		{"France", 1},
		{"FRANCE", 1},
		{"Visit France", 1},
		{"United States of America", 1},
		{"Bosnia and Herzegovina", 1},
		{"Frankfurt", 0},
		{"United Kingdom", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, fe.ExtractValue(tt.input).IsCountry)
		})
	}
}

func TestExtractValueLegalSuffix(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	assert.Equal(t, 1, fe.ExtractValue("Tresata pvt ltd.").HasLegalSuffix)
	assert.Equal(t, 1, fe.ExtractValue("Enno Roggemann GmbH & Co. KG").HasLegalSuffix)
	assert.Equal(t, 1, fe.ExtractValue("Nova s. r. o.").HasLegalSuffix)
	assert.Equal(t, 0, fe.ExtractValue("First National Bank").HasLegalSuffix)
	assert.Equal(t, 0, fe.ExtractValue("Ltd Holdings").HasLegalSuffix)
}

func TestExtractValueBlank(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	assert.Equal(t, FeatureVector{}, fe.ExtractValue(""))
	assert.Equal(t, FeatureVector{}, fe.ExtractValue(" \t\n"))
}

func TestExtractPreservesOrderAndLength(t *testing.T) {
	fe := NewFeatureExtractor(testRefs(), nil)

	values := []string{"France", "", "9876543210"}
	vectors := fe.Extract(values)

	assert.Len(t, vectors, 3)
	assert.Equal(t, 1, vectors[0].IsCountry)
	assert.Equal(t, FeatureVector{}, vectors[1])
	assert.Equal(t, 3, vectors[2].PhoneMatches)

	assert.Empty(t, fe.Extract(nil))
}

func TestNewFeatureExtractorNilRefs(t *testing.T) {
	fe := NewFeatureExtractor(nil, nil)

	fv := fe.ExtractValue("Acme Ltd France")
	assert.Equal(t, 0, fv.IsCountry)
	assert.Equal(t, 0, fv.HasLegalSuffix)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(9876543210), "9876543210"},
		{1.5, "1.5"},
		{42, "42"},
		{int64(7), "7"},
		{true, "true"},
		{json.Number("14752162114"), "14752162114"},
		{[]int{1}, "[1]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in))
	}
}
