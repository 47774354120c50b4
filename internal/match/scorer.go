package match

import (
	"go.uber.org/zap"

	"github.com/coltype/internal/logging"
)

// Scorer aggregates feature vectors into column scores and applies the
// decision cascade
type Scorer struct {
	weights    ScoreWeights
	thresholds Thresholds
	logger     *zap.Logger
}

// NewScorer creates a scorer with default weights and thresholds
func NewScorer() *Scorer {
	return NewScorerWithConfig(DefaultScoreWeights(), DefaultThresholds(), nil)
}

// NewScorerWithConfig creates a scorer with custom weights and thresholds
func NewScorerWithConfig(weights ScoreWeights, thresholds Thresholds, logger *zap.Logger) *Scorer {
	return &Scorer{
		weights:    weights,
		thresholds: thresholds,
		logger:     logging.OrNop(logger),
	}
}

// Thresholds returns the cascade thresholds in use
func (s *Scorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score computes the mean-based score of each type. An empty column scores
// zero everywhere.
func (s *Scorer) Score(vectors []FeatureVector) ColumnScores {
	scores := ColumnScores{
		LabelPhoneNumber: 0,
		LabelDate:        0,
		LabelCountry:     0,
		LabelCompanyName: 0,
	}
	if len(vectors) == 0 {
		return scores
	}

	var phone, date, month, country, company float64
	for _, v := range vectors {
		phone += float64(v.PhoneMatches)
		date += float64(v.DateMatches)
		month += float64(v.HasMonthName)
		country += float64(v.IsCountry)
		company += float64(v.HasLegalSuffix)
	}

	n := float64(len(vectors))
	scores[LabelPhoneNumber] = phone / n
	scores[LabelDate] = s.weights.DateRegex*(date/n) + s.weights.DateMonth*(month/n)
	scores[LabelCountry] = country / n
	scores[LabelCompanyName] = company / n

	return scores
}

// Decide maps scores to a label. First match wins, in the order phone,
// date, country, company; otherwise Other with DefaultConfidence.
func (s *Scorer) Decide(scores ColumnScores) Result {
	cascade := []struct {
		label     Label
		threshold float64
	}{
		{LabelPhoneNumber, s.thresholds.Phone},
		{LabelDate, s.thresholds.Date},
		{LabelCountry, s.thresholds.Country},
		{LabelCompanyName, s.thresholds.Company},
	}

	for _, step := range cascade {
		if score := scores[step.label]; score > step.threshold {
			s.logger.Debug("cascade accepted",
				zap.String("label", string(step.label)),
				zap.Float64("score", score),
				zap.Float64("threshold", step.threshold))
			return Result{Label: step.label, Confidence: score}
		}
	}

	s.logger.Debug("no type cleared its threshold", zap.Any("scores", scores))
	return Result{Label: LabelOther, Confidence: DefaultConfidence}
}
