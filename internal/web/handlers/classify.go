// Package handlers implements the coltype HTTP API.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coltype/internal/audit"
	"github.com/coltype/internal/engine"
	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/match"
)

// RunRecorder stores classification runs
type RunRecorder interface {
	RecordRun(ctx context.Context, run audit.Run) (uuid.UUID, error)
}

// ClassifyHandler serves column classification
type ClassifyHandler struct {
	Engine *engine.Engine
	// Recorder is optional; when set every request is stored as a run
	Recorder RunRecorder
	Logger   *zap.Logger
}

// ClassifyRequest is the body of POST /api/classify. Values may be strings,
// numbers, booleans or null.
type ClassifyRequest struct {
	Column string `json:"column,omitempty"`
	Values []any  `json:"values" validate:"required"`
}

// ClassifyResponse carries the decision and the raw per-type scores
type ClassifyResponse struct {
	Label      match.Label        `json:"label"`
	Confidence float64            `json:"confidence"`
	Scores     match.ColumnScores `json:"scores,omitempty"`
	RunID      string             `json:"run_id,omitempty"`
}

// Classify handles POST /api/classify
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !decodeJSON(w, r, &req) || !validRequest(w, req) {
		return
	}

	started := time.Now()
	result, scores := h.Engine.ClassifyScored(stringify(req.Values))
	resp := ClassifyResponse{
		Label:      result.Label,
		Confidence: result.Confidence,
		Scores:     scores,
	}

	if h.Recorder != nil {
		column := req.Column
		if column == "" {
			column = "values"
		}
		id, err := h.Recorder.RecordRun(r.Context(), audit.Run{
			Source:    "api",
			Command:   "classify",
			StartedAt: started,
			Duration:  time.Since(started),
			Columns:   []engine.ColumnReport{{Column: column, Result: result}},
		})
		if err != nil {
			// the classification itself succeeded
			logging.OrNop(h.Logger).Warn("failed to record classification run", zap.Error(err))
		} else {
			resp.RunID = id.String()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
