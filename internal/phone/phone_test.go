package phone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	parsed  Parsed
	err     error
	gotRaw  string
	gotRegn string
}

func (p *stubParser) Parse(raw, region string) (Parsed, error) {
	p.gotRaw, p.gotRegn = raw, region
	return p.parsed, p.err
}

func TestSplitWithStub(t *testing.T) {
	tests := []struct {
		name   string
		parser *stubParser
		raw    string
		region string
		want   Split
		wantRg string
	}{
		{
			name:   "valid number",
			parser: &stubParser{parsed: Parsed{Valid: true, E164: "+16502530000", RegionCode: "US"}},
			raw:    " (650) 253-0000 ",
			want:   Split{Country: "United States", Number: "+16502530000"},
			wantRg: "US",
		},
		{
			name:   "explicit region wins",
			parser: &stubParser{parsed: Parsed{Valid: true, E164: "+441212345678", RegionCode: "GB"}},
			raw:    "0121 234 5678",
			region: "GB",
			want:   Split{Country: "United Kingdom", Number: "+441212345678"},
			wantRg: "GB",
		},
		{
			name:   "parser error passes raw through",
			parser: &stubParser{err: errors.New("boom")},
			raw:    "  not a number ",
			want:   Split{Number: "not a number"},
			wantRg: "US",
		},
		{
			name:   "invalid without error",
			parser: &stubParser{parsed: Parsed{Valid: false, E164: "+1123"}},
			raw:    "123",
			want:   Split{Number: "123"},
			wantRg: "US",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter(tt.parser, "", nil)
			got := s.Split(tt.raw, tt.region)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRg, tt.parser.gotRegn)
		})
	}
}

func TestSplitEmptySkipsParser(t *testing.T) {
	p := &stubParser{err: errors.New("should not be called")}
	s := NewSplitter(p, "", nil)

	assert.Equal(t, Split{}, s.Split("   ", ""))
	assert.Empty(t, p.gotRaw)
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(nil, "", nil)
	assert.Equal(t, DefaultRegion, s.DefaultRegion())
	assert.IsType(t, LibPhoneNumber{}, s.parser)

	assert.Equal(t, "GB", NewSplitter(nil, "gb", nil).DefaultRegion())
}

func TestLibPhoneNumber(t *testing.T) {
	var p LibPhoneNumber

	parsed, err := p.Parse("+1 650-253-0000", "US")
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "+16502530000", parsed.E164)
	assert.Equal(t, "US", parsed.RegionCode)

	parsed, err = p.Parse("(201) 555-0123", "us")
	require.NoError(t, err)
	assert.Equal(t, "+12015550123", parsed.E164)

	_, err = p.Parse("12345", "US")
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = p.Parse("hello", "US")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidNumber)
}

func TestSplitLibPhoneNumber(t *testing.T) {
	s := NewSplitter(nil, "US", nil)

	assert.Equal(t, Split{Country: "United States", Number: "+16502530000"}, s.Split("+1 650-253-0000", ""))
	assert.Equal(t, Split{Country: "United Kingdom", Number: "+441212345678"}, s.Split("0121 234 5678", "GB"))
	assert.Equal(t, Split{Country: "United Kingdom", Number: "+441212345678"}, s.Split("+44 121 234 5678", ""))
	assert.Equal(t, Split{Number: "call me"}, s.Split(" call me ", ""))

	got := s.Split("+1 650-253-0000", "")
	assert.True(t, got.OK())
	assert.False(t, s.Split("nope", "").OK())
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "United States", CountryName("US"))
	assert.Equal(t, "Germany", CountryName("DE"))
	assert.Equal(t, "India", CountryName("IN"))
	assert.Equal(t, "", CountryName(""))
	assert.Equal(t, "not-a-region", CountryName("not-a-region"))
}
