// Package columns reads tabular input and resolves requested column names
// against its header, including common aliases.
package columns

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is returned when no header matches a requested column
var ErrColumnNotFound = errors.New("column not found")

// aliasGroups lists header spellings that refer to the same kind of column
var aliasGroups = [][]string{
	{"ph_nb", "number", "phone", "phone_number", "phone number", "mobile", "contact"},
	{"company", "company_name", "org", "organization", "firm"},
	{"country", "nation", "location"},
	{"date", "dob", "created_at", "time"},
}

// Aliases returns the alias group containing name, or nil
func Aliases(name string) []string {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, group := range aliasGroups {
		for _, alias := range group {
			if alias == key {
				out := make([]string, len(group))
				copy(out, group)
				return out
			}
		}
	}
	return nil
}

// Resolve finds the header that best matches requested: an exact match,
// then the first header (in header order) belonging to requested's alias
// group, then a case-insensitive match.
func Resolve(headers []string, requested string) (string, error) {
	for _, h := range headers {
		if h == requested {
			return h, nil
		}
	}

	if group := Aliases(requested); group != nil {
		for _, h := range headers {
			key := strings.ToLower(strings.TrimSpace(h))
			for _, alias := range group {
				if key == alias {
					return h, nil
				}
			}
		}
	}

	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(requested)) {
			return h, nil
		}
	}

	return "", fmt.Errorf("%w: %q (available: %s)", ErrColumnNotFound, requested, strings.Join(headers, ", "))
}
