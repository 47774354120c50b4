package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/coltype/internal/audit"
	"github.com/coltype/internal/config"
	"github.com/coltype/internal/db"
	"github.com/coltype/internal/engine"
	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/match"
	"github.com/coltype/internal/metrics"
	"github.com/coltype/internal/phone"
	"github.com/coltype/internal/refdata"
	"github.com/coltype/internal/suffix"
)

// errRecordingDisabled is returned when --record is set without a database
var errRecordingDisabled = errors.New("run recording needs database.url (COLTYPE_DATABASE_URL)")

// app holds the wired components shared by every subcommand
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	refs       *refdata.Sets
	matcher    *suffix.Matcher
	classifier *match.Classifier
	phones     *phone.Splitter
	engine     *engine.Engine
	metrics    *metrics.Metrics

	conn    *db.Connection
	tracker *audit.Tracker
}

// newApp loads configuration and builds the classification stack. The
// database is only opened when record is set.
func newApp(ctx context.Context, configPath string, record bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	refs, err := refdata.Load(cfg.Data.Countries, cfg.Data.Legal, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("reference data loaded",
		zap.Int("countries", refs.CountryCount()),
		zap.Int("legal_suffixes", len(refs.LegalSuffixes())))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		refs:    refs,
		matcher: suffix.New(refs.LegalSuffixes()),
		metrics: metrics.New(true),
	}

	thresholds := cfg.Classifier.Thresholds
	weights := cfg.Classifier.Weights
	a.classifier = match.NewClassifier(match.ClassifierConfig{
		Refs:       refs,
		Suffixes:   a.matcher,
		Weights:    &weights,
		Thresholds: &thresholds,
		Logger:     logger,
	})
	a.phones = phone.NewSplitter(phone.LibPhoneNumber{}, cfg.Parse.DefaultRegion, logger)
	a.engine = engine.New(engine.Config{
		Classifier: a.classifier,
		Companies:  a.matcher,
		Phones:     a.phones,
		Metrics:    a.metrics,
		Logger:     logger,
	})

	if record {
		if err := a.openRecorder(ctx); err != nil {
			a.close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) openRecorder(ctx context.Context) error {
	if !a.cfg.Database.Enabled() {
		return errRecordingDisabled
	}

	conn, err := db.Open(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	tracker := audit.NewTracker(conn.DB, conn.Driver, a.logger)
	if err := tracker.EnsureSchema(ctx); err != nil {
		conn.Close()
		return err
	}

	a.conn = conn
	a.tracker = tracker
	return nil
}

// record stores a run when recording is on. Failures are logged, never
// returned: the command's own output is already complete.
func (a *app) record(ctx context.Context, run audit.Run) {
	if a.tracker == nil {
		return
	}
	run.Duration = time.Since(run.StartedAt)
	id, err := a.tracker.RecordRun(ctx, run)
	if err != nil {
		a.logger.Warn("failed to record run", zap.String("command", run.Command), zap.Error(err))
		return
	}
	a.logger.Debug("run recorded", zap.String("run_id", id.String()))
}

func (a *app) close() {
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Warn("database close error", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

