// Package engine runs the classifier and splitters over whole tables: it
// classifies every column, picks the phone and company columns and builds
// the enriched output rows.
package engine

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/coltype/internal/columns"
	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/match"
	"github.com/coltype/internal/metrics"
	"github.com/coltype/internal/phone"
	"github.com/coltype/internal/suffix"
)

// ErrNoColumns is returned by ParseTable when neither a phone nor a company
// column reaches the confidence threshold
var ErrNoColumns = errors.New("no column met the confidence threshold")

// Output column names, in output order
const (
	ColOriginalPhone   = "original_phone_number"
	ColParsedCountry   = "parsed_country"
	ColParsedPhone     = "parsed_phone_number"
	ColOriginalCompany = "original_company_name"
	ColParsedCompany   = "parsed_company_name"
	ColParsedLegal     = "parsed_legal_suffix"
)

// CompanySplitter separates a company name from its legal suffix
type CompanySplitter interface {
	Split(value string) suffix.Split
}

// PhoneSplitter separates a phone number into country and canonical number
type PhoneSplitter interface {
	Split(raw, region string) phone.Split
}

// Engine is safe for concurrent use when its collaborators are
type Engine struct {
	classifier match.ColumnClassifier
	companies  CompanySplitter
	phones     PhoneSplitter
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Config holds the collaborators of an Engine. Metrics and Logger are
// optional.
type Config struct {
	Classifier match.ColumnClassifier
	Companies  CompanySplitter
	Phones     PhoneSplitter
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// New creates a table engine
func New(cfg Config) *Engine {
	return &Engine{
		classifier: cfg.Classifier,
		companies:  cfg.Companies,
		phones:     cfg.Phones,
		metrics:    cfg.Metrics,
		logger:     logging.OrNop(cfg.Logger),
	}
}

// ColumnReport is the classification of one table column
type ColumnReport struct {
	Column string `json:"column"`
	match.Result
}

// Classify classifies a single column of values
func (e *Engine) Classify(values []string) match.Result {
	start := time.Now()
	result := e.classifier.ClassifyColumn(values)
	e.metrics.ObserveClassification(string(result.Label), time.Since(start))
	return result
}

// ScoringClassifier is a classifier that can also report its raw scores
type ScoringClassifier interface {
	ClassifyWithScores(values []string) (match.Result, match.ColumnScores)
}

// ClassifyScored is Classify plus the per-type scores. Scores are nil when
// the configured classifier does not expose them.
func (e *Engine) ClassifyScored(values []string) (match.Result, match.ColumnScores) {
	sc, ok := e.classifier.(ScoringClassifier)
	if !ok {
		return e.Classify(values), nil
	}

	start := time.Now()
	result, scores := sc.ClassifyWithScores(values)
	e.metrics.ObserveClassification(string(result.Label), time.Since(start))
	return result, scores
}

// ClassifyAll classifies every column of t, in header order
func (e *Engine) ClassifyAll(t *columns.Table) []ColumnReport {
	reports := make([]ColumnReport, 0, len(t.Headers))
	for _, h := range t.Headers {
		result := e.Classify(t.Column(h))
		e.logger.Info("column classified",
			zap.String("column", h),
			zap.String("label", string(result.Label)),
			zap.Float64("confidence", result.Confidence))
		reports = append(reports, ColumnReport{Column: h, Result: result})
	}
	return reports
}

// SplitCompany splits one company name
func (e *Engine) SplitCompany(value string) suffix.Split {
	s := e.companies.Split(value)
	e.metrics.ObserveSplit("company", s.Legal != "")
	return s
}

// SplitPhone splits one phone number. An empty region uses the splitter's
// default.
func (e *Engine) SplitPhone(raw, region string) phone.Split {
	s := e.phones.Split(raw, region)
	e.metrics.ObserveSplit("phone", s.OK())
	return s
}
