// Package api exposes the reconciliation engine over HTTP: dataset uploads
// replace state wholesale, reads serve the derived metrics and follow-ups.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/config"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/engine"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/ingestion"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/storage"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/websocket"
)

// Handler wires dataset ingestion, the engine and persistence behind the
// HTTP surface. Uploads replace the corresponding dataset wholesale and the
// resulting snapshot is broadcast to dashboard clients.
type Handler struct {
	engine    Engine
	processor *ingestion.Processor
	store     storage.Store
	hub       *websocket.Hub
	cfg       *config.Config
	logger    zerolog.Logger
}

// Engine is the subset of the reconciliation engine the handlers need.
type Engine interface {
	ReplaceCalls(records []types.CallRecord)
	ReplaceAssignments(operators []types.OperatorAssignments)
	OperatorMetrics() []types.OperatorMetrics
	FollowUps() []types.FollowUpRecord
	Snapshot() types.DashboardSnapshot
}

var _ Engine = (*engine.Engine)(nil)

// NewHandler creates a new Handler
func NewHandler(eng Engine, processor *ingestion.Processor, store storage.Store, hub *websocket.Hub, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    eng,
		processor: processor,
		store:     store,
		hub:       hub,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// batchRequest is the wire form of a call dataset upload. Cells arrive as
// whatever JSON type the exporting spreadsheet produced.
type batchRequest struct {
	Rows [][]any `json:"rows"`
}

// HandleCallBatch handles POST /api/calls/batch
func (h *Handler) HandleCallBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "rows must not be empty")
		return
	}
	if len(req.Rows) > h.cfg.MaxBatchRows {
		writeError(w, http.StatusRequestEntityTooLarge, "too many rows")
		return
	}

	records, stats := h.processor.Process(ingestion.StringifyRows(req.Rows))
	stats.BatchID = uuid.New().String()

	h.engine.ReplaceCalls(records)

	batch := types.CallBatch{
		BatchID:    stats.BatchID,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		Records:    records,
	}
	if err := h.store.SaveCallBatch(r.Context(), batch); err != nil {
		// Persistence is best-effort; the in-memory dataset already replaced
		h.logger.Error().Err(err).Str("batch_id", batch.BatchID).Msg("failed to persist call batch")
	}

	h.broadcastSnapshot()

	h.logger.Info().
		Str("batch_id", stats.BatchID).
		Int("total_rows", stats.TotalRows).
		Int("ingested", stats.RecordsIngested).
		Int("degraded_dates", stats.DegradedDates).
		Int("unidentified_operators", stats.UnidentifiedOperators).
		Msg("call batch replaced")

	writeJSON(w, http.StatusOK, stats)
}

// HandleAssignments handles PUT /api/assignments
func (h *Handler) HandleAssignments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	var payloads []ingestion.RawOperatorPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	operators := ingestion.NormalizeAssignments(payloads)
	h.engine.ReplaceAssignments(operators)

	set := types.AssignmentSet{
		SetID:      uuid.New().String(),
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		Operators:  operators,
	}
	if err := h.store.SaveAssignmentSet(r.Context(), set); err != nil {
		h.logger.Error().Err(err).Str("set_id", set.SetID).Msg("failed to persist assignment set")
	}

	h.broadcastSnapshot()

	assignments := 0
	for _, op := range operators {
		assignments += len(op.Assignments)
	}
	h.logger.Info().
		Str("set_id", set.SetID).
		Int("operators", len(operators)).
		Int("assignments", assignments).
		Msg("assignment set replaced")

	writeJSON(w, http.StatusOK, map[string]any{
		"setId":       set.SetID,
		"operators":   len(operators),
		"assignments": assignments,
	})
}

// HandleOperatorMetrics handles GET /api/metrics/operators
func (h *Handler) HandleOperatorMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.OperatorMetrics())
}

// HandleFollowUps handles GET /api/followups
func (h *Handler) HandleFollowUps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.FollowUps())
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) broadcastSnapshot() {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(h.engine.Snapshot())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal dashboard snapshot")
		return
	}
	h.hub.Broadcast(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
