// Package phone splits raw phone strings into a country and a canonical
// number. Parsing and validation are delegated to a Parser; the default
// implementation wraps github.com/nyaruka/phonenumbers.
//
// Canonical numbers are E.164 with a leading "+", for example +16502530000.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/coltype/internal/logging"
)

// DefaultRegion is assumed when neither the caller nor the splitter names one
const DefaultRegion = "US"

// ErrInvalidNumber is returned by parsers for numbers that parse but are not
// valid for any region
var ErrInvalidNumber = errors.New("phone: invalid number")

// Parsed is what a Parser knows about a number
type Parsed struct {
	Valid      bool
	E164       string
	RegionCode string
}

// Parser is the phone-number parsing capability
type Parser interface {
	Parse(raw, defaultRegion string) (Parsed, error)
}

// LibPhoneNumber is a Parser backed by the libphonenumber metadata
type LibPhoneNumber struct{}

// Parse parses raw assuming defaultRegion for national-format input
func (LibPhoneNumber) Parse(raw, defaultRegion string) (Parsed, error) {
	num, err := phonenumbers.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil {
		return Parsed{}, fmt.Errorf("phone: parsing %q: %w", raw, err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return Parsed{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	return Parsed{
		Valid:      true,
		E164:       phonenumbers.Format(num, phonenumbers.E164),
		RegionCode: phonenumbers.GetRegionCodeForNumber(num),
	}, nil
}

// Split is a phone number broken into country name and canonical number
type Split struct {
	Country string `json:"country"`
	Number  string `json:"number"`
}

// OK reports whether the number was recognized
func (s Split) OK() bool {
	return s.Country != ""
}

// Splitter turns raw strings into Splits. It never fails: anything the
// parser rejects comes back as an empty country and the trimmed input.
type Splitter struct {
	parser        Parser
	defaultRegion string
	logger        *zap.Logger
}

// NewSplitter creates a splitter. A nil parser means LibPhoneNumber; an empty
// region means DefaultRegion.
func NewSplitter(parser Parser, defaultRegion string, logger *zap.Logger) *Splitter {
	if parser == nil {
		parser = LibPhoneNumber{}
	}
	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}
	return &Splitter{
		parser:        parser,
		defaultRegion: strings.ToUpper(defaultRegion),
		logger:        logging.OrNop(logger),
	}
}

// DefaultRegion returns the region used when Split is given none
func (s *Splitter) DefaultRegion() string {
	return s.defaultRegion
}

// Split parses raw. region overrides the splitter's default when non-empty.
func (s *Splitter) Split(raw, region string) Split {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Split{}
	}
	if region == "" {
		region = s.defaultRegion
	}

	parsed, err := s.parser.Parse(trimmed, region)
	if err == nil && !parsed.Valid {
		err = ErrInvalidNumber
	}
	if err != nil {
		s.logger.Debug("phone number not recognized",
			zap.String("value", trimmed),
			zap.String("region", region),
			zap.Error(err))
		return Split{Number: trimmed}
	}

	return Split{
		Country: CountryName(parsed.RegionCode),
		Number:  parsed.E164,
	}
}

// CountryName returns the English name of a CLDR region code, or the code
// itself when no name is known
func CountryName(regionCode string) string {
	if regionCode == "" {
		return ""
	}
	region, err := language.ParseRegion(regionCode)
	if err != nil {
		return regionCode
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return regionCode
}
