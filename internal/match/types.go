package match

import "fmt"

// Label is the semantic type assigned to a column
type Label string

const (
	LabelPhoneNumber Label = "PhoneNumber"
	LabelCompanyName Label = "CompanyName"
	LabelCountry     Label = "Country"
	LabelDate        Label = "Date"
	LabelOther       Label = "Other"
)

// Labels lists every label in decision priority order
var Labels = []Label{LabelPhoneNumber, LabelDate, LabelCountry, LabelCompanyName, LabelOther}

// DefaultConfidence is reported for Other when no type clears its threshold
const DefaultConfidence = 0.5

// FeatureVector holds the lexical features of one trimmed value
type FeatureVector struct {
	NumericFraction float64 // digit runes / all runes
	HasPlus         bool
	HasParentheses  bool
	HasDash         bool
	HasSlash        bool
	AvgTokenLen     float64
	UniqueTokens    int
	MaxTokenLen     int
	IsCountry       int // 0/1, any token is a known country
	HasLegalSuffix  int // 0/1, trailing tokens form a known legal suffix
	PhoneMatches    int // number of phone shapes matched
	DateMatches     int // number of date shapes matched
	HasMonthName    int // 0/1
}

// ColumnScores maps each semantic type (except Other) to its column score.
// Scores are means over values and are not normalized against each other.
type ColumnScores map[Label]float64

// Result is the outcome of classifying a column
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// String formats the result the way the CLI prints it, e.g. "PhoneNumber 2.33"
func (r Result) String() string {
	return fmt.Sprintf("%s %.2f", r.Label, r.Confidence)
}

// Thresholds are the per-type cut-offs of the decision cascade. A score must
// be strictly greater than its threshold to win.
type Thresholds struct {
	Phone   float64 `mapstructure:"phone" json:"phone" validate:"gte=0"`
	Date    float64 `mapstructure:"date" json:"date" validate:"gte=0"`
	Country float64 `mapstructure:"country" json:"country" validate:"gte=0"`
	Company float64 `mapstructure:"company" json:"company" validate:"gte=0"`
}

// DefaultThresholds returns the cascade thresholds tuned to each score's scale
func DefaultThresholds() Thresholds {
	return Thresholds{
		Phone:   0.8,
		Date:    0.7,
		Country: 0.9,
		Company: 0.7,
	}
}

// ScoreWeights controls the blend of the date score
type ScoreWeights struct {
	DateRegex float64 `mapstructure:"date_regex" json:"date_regex" validate:"gte=0"` // 0.8
	DateMonth float64 `mapstructure:"date_month" json:"date_month" validate:"gte=0"` // 0.2
}

// DefaultScoreWeights returns the recommended date blend
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		DateRegex: 0.8,
		DateMonth: 0.2,
	}
}

// ColumnClassifier is the capability the table engine and HTTP API depend on
type ColumnClassifier interface {
	ClassifyColumn(values []string) Result
}
