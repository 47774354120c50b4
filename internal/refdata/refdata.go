// Package refdata loads the reference lists used by classification: known
// country names and known legal-entity suffixes. Both are plain newline
// delimited files. A missing file degrades to an empty list with a warning.
package refdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/coltype/internal/logging"
)

// ErrMissingReferenceData is returned (wrapped) by ReadFile when the backing
// file does not exist.
var ErrMissingReferenceData = errors.New("reference data file not found")

// Sets holds the immutable reference lists. Build one with New or Load and
// pass it to the components that need it; nothing here is global.
type Sets struct {
	countries map[string]struct{}
	suffixes  []string
}

// New builds Sets from in-memory lists. Country names are lower-cased, legal
// suffixes keep their original spelling. Blank entries and duplicates are
// dropped; suffix order is preserved.
func New(countries, legalSuffixes []string) *Sets {
	s := &Sets{countries: make(map[string]struct{}, len(countries))}

	for _, c := range countries {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			s.countries[c] = struct{}{}
		}
	}

	seen := make(map[string]bool, len(legalSuffixes))
	for _, suf := range legalSuffixes {
		suf = strings.TrimSpace(suf)
		if suf == "" || seen[suf] {
			continue
		}
		seen[suf] = true
		s.suffixes = append(s.suffixes, suf)
	}

	return s
}

// Empty returns Sets with no countries and no suffixes.
func Empty() *Sets {
	return New(nil, nil)
}

// Load reads both reference files. A missing file is logged at WARN and
// yields an empty list; any other read failure is returned.
func Load(countriesPath, legalPath string, logger *zap.Logger) (*Sets, error) {
	logger = logging.OrNop(logger)

	countries, err := readOrEmpty(countriesPath, "countries", logger)
	if err != nil {
		return nil, err
	}
	suffixes, err := readOrEmpty(legalPath, "legal_suffixes", logger)
	if err != nil {
		return nil, err
	}

	sets := New(countries, suffixes)
	logger.Info("reference data loaded",
		zap.Int("countries", len(sets.countries)),
		zap.Int("legal_suffixes", len(sets.suffixes)))
	return sets, nil
}

func readOrEmpty(path, kind string, logger *zap.Logger) ([]string, error) {
	lines, err := ReadFile(path)
	if errors.Is(err, ErrMissingReferenceData) {
		logger.Warn("reference data file not found, continuing with empty set",
			zap.String("kind", kind), zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ReadFile returns the non-blank, trimmed lines of path.
func ReadFile(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrMissingReferenceData)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingReferenceData, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ReadLines returns the non-blank, trimmed lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// IsCountry reports whether name (any case) is a known country.
func (s *Sets) IsCountry(name string) bool {
	_, ok := s.countries[strings.ToLower(name)]
	return ok
}

// CountryCount returns the number of distinct countries.
func (s *Sets) CountryCount() int {
	return len(s.countries)
}

// LegalSuffixes returns a copy of the suffix list.
func (s *Sets) LegalSuffixes() []string {
	out := make([]string, len(s.suffixes))
	copy(out, s.suffixes)
	return out
}
