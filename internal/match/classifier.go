package match

import (
	"go.uber.org/zap"

	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/refdata"
	"github.com/coltype/internal/suffix"
)

// Classifier ties the extractor, scorer and decision cascade together. It is
// immutable once built and may be shared between goroutines.
type Classifier struct {
	extractor *FeatureExtractor
	scorer    *Scorer
	suffixes  *suffix.Matcher
	logger    *zap.Logger
}

// ClassifierConfig holds the collaborators of a Classifier. Zero fields fall
// back to defaults.
type ClassifierConfig struct {
	Refs       *refdata.Sets
	Suffixes   *suffix.Matcher
	Weights    *ScoreWeights
	Thresholds *Thresholds
	Logger     *zap.Logger
}

// NewClassifier creates a column classifier
func NewClassifier(config ClassifierConfig) *Classifier {
	refs := config.Refs
	if refs == nil {
		refs = refdata.Empty()
	}

	matcher := config.Suffixes
	if matcher == nil {
		matcher = suffix.New(refs.LegalSuffixes())
	}

	weights := DefaultScoreWeights()
	if config.Weights != nil {
		weights = *config.Weights
	}

	thresholds := DefaultThresholds()
	if config.Thresholds != nil {
		thresholds = *config.Thresholds
	}

	logger := logging.OrNop(config.Logger)

	return &Classifier{
		extractor: NewFeatureExtractor(refs, matcher),
		scorer:    NewScorerWithConfig(weights, thresholds, logger),
		suffixes:  matcher,
		logger:    logger,
	}
}

// ClassifyColumn infers the semantic type of a column of values
func (c *Classifier) ClassifyColumn(values []string) Result {
	result, _ := c.ClassifyWithScores(values)
	return result
}

// ClassifyWithScores is ClassifyColumn that also returns the raw scores
func (c *Classifier) ClassifyWithScores(values []string) (Result, ColumnScores) {
	vectors := c.extractor.Extract(values)
	scores := c.scorer.Score(vectors)
	result := c.scorer.Decide(scores)

	c.logger.Debug("column classified",
		zap.Int("values", len(values)),
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", result.Confidence))

	return result, scores
}

// SuffixMatcher returns the matcher shared by feature extraction and
// company-name splitting
func (c *Classifier) SuffixMatcher() *suffix.Matcher {
	return c.suffixes
}

// Extractor returns the underlying feature extractor
func (c *Classifier) Extractor() *FeatureExtractor {
	return c.extractor
}
