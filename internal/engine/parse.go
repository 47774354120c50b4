package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/coltype/internal/columns"
	"github.com/coltype/internal/match"
)

// ParseOptions controls ParseTable
type ParseOptions struct {
	// MinConfidence is the lowest confidence at which a column is used
	MinConfidence float64
	// Region is the default region for national-format phone numbers
	Region string
}

// Output is the result of ParseTable
type Output struct {
	Headers []string
	Rows    [][]string

	// PhoneColumn and CompanyColumn name the source columns used, empty when
	// that part was skipped
	PhoneColumn   string
	CompanyColumn string

	Reports []ColumnReport
}

// SelectColumns returns the best PhoneNumber and CompanyName columns among
// reports, regardless of threshold. The first column wins ties.
func SelectColumns(reports []ColumnReport) (phoneCol, companyCol ColumnReport) {
	for _, r := range reports {
		switch r.Label {
		case match.LabelPhoneNumber:
			if r.Confidence > phoneCol.Confidence {
				phoneCol = r
			}
		case match.LabelCompanyName:
			if r.Confidence > companyCol.Confidence {
				companyCol = r
			}
		}
	}
	return phoneCol, companyCol
}

// ParseTable classifies every column of t, then splits the best phone and
// company columns into the fixed output layout. Columns below
// opts.MinConfidence are skipped; if both are skipped ErrNoColumns is
// returned along with the column reports.
func (e *Engine) ParseTable(t *columns.Table, opts ParseOptions) (*Output, error) {
	out := &Output{Reports: e.ClassifyAll(t)}

	phoneCol, companyCol := SelectColumns(out.Reports)
	e.logger.Info("best candidate columns",
		zap.String("phone_column", phoneCol.Column),
		zap.Float64("phone_confidence", phoneCol.Confidence),
		zap.String("company_column", companyCol.Column),
		zap.Float64("company_confidence", companyCol.Confidence))

	if phoneCol.Column != "" && phoneCol.Confidence >= opts.MinConfidence {
		out.PhoneColumn = phoneCol.Column
		out.Headers = append(out.Headers, ColOriginalPhone, ColParsedCountry, ColParsedPhone)
	}
	if companyCol.Column != "" && companyCol.Confidence >= opts.MinConfidence {
		out.CompanyColumn = companyCol.Column
		out.Headers = append(out.Headers, ColOriginalCompany, ColParsedCompany, ColParsedLegal)
	}

	if out.PhoneColumn == "" && out.CompanyColumn == "" {
		return out, fmt.Errorf("%w (%.0f%%)", ErrNoColumns, opts.MinConfidence*100)
	}

	var phones, companies []string
	if out.PhoneColumn != "" {
		phones = t.Column(out.PhoneColumn)
	}
	if out.CompanyColumn != "" {
		companies = t.Column(out.CompanyColumn)
	}

	out.Rows = make([][]string, t.Len())
	for i := range out.Rows {
		row := make([]string, 0, len(out.Headers))
		if phones != nil {
			s := e.SplitPhone(phones[i], opts.Region)
			row = append(row, phones[i], s.Country, s.Number)
		}
		if companies != nil {
			s := e.SplitCompany(companies[i])
			row = append(row, companies[i], s.Name, s.Legal)
		}
		out.Rows[i] = row
	}

	return out, nil
}
