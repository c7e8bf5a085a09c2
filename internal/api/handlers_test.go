package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/config"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/detect"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/engine"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/ingestion"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/storage"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

func newTestHandler(t *testing.T) (*Handler, *engine.Engine) {
	t.Helper()
	eng := engine.New(zerolog.Nop())
	processor := ingestion.NewProcessor(detect.New(nil), zerolog.Nop())
	cfg := &config.Config{
		MaxUploadBytes: 1 << 20,
		MaxBatchRows:   100,
	}
	h := NewHandler(eng, processor, storage.NewNoopStore(), nil, cfg, zerolog.Nop())
	return h, eng
}

func callRow(id, date, beneficiary, phone, operator, duration, result string) []any {
	return []any{id, date, beneficiary, "Talca", "outbound", phone, "morning", operator, duration, result, "", ""}
}

func TestHandleCallBatch(t *testing.T) {
	h, _ := newTestHandler(t)

	body, _ := json.Marshal(batchRequest{Rows: [][]any{
		callRow("1", "28-03-2025", "Juan Pérez", "+56 9 1234 5678", "Ana Reyes López", "120", "Llamado exitoso"),
		callRow("2", "fechamala", "Rosa Díaz", "987654321", "Ana Reyes López", "60", "No responde"),
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/calls/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCallBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var stats types.IngestStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if stats.BatchID == "" {
		t.Error("expected a generated batch ID")
	}
	if stats.TotalRows != 2 || stats.RecordsIngested != 2 {
		t.Errorf("stats = %+v, want 2 rows ingested", stats)
	}
	if stats.DegradedDates != 1 {
		t.Errorf("DegradedDates = %d, want 1", stats.DegradedDates)
	}
}

func TestHandleCallBatchRejectsBadInput(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid JSON", "{not json", http.StatusBadRequest},
		{"empty rows", `{"rows":[]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/calls/batch", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleCallBatch(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandleCallBatchRowLimit(t *testing.T) {
	h, _ := newTestHandler(t)

	rows := make([][]any, 101)
	for i := range rows {
		rows[i] = callRow("1", "28-03-2025", "X", "+56 9 1234 5678", "Ana Reyes", "10", "exitoso")
	}
	body, _ := json.Marshal(batchRequest{Rows: rows})

	req := httptest.NewRequest(http.MethodPost, "/api/calls/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCallBatch(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandleAssignments(t *testing.T) {
	h, eng := newTestHandler(t)

	payload := []ingestion.RawOperatorPayload{
		{
			OperatorID:   "op-1",
			OperatorName: "Ana Reyes López",
			Assignments: []types.RawAssignment{
				{BeneficiaryName: "Juan Pérez", Phone: "+56 9 1234 5678", Commune: "Talca"},
			},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPut, "/api/assignments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleAssignments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["operators"] != float64(1) || resp["assignments"] != float64(1) {
		t.Errorf("response = %v", resp)
	}

	followUps := eng.FollowUps()
	if len(followUps) != 1 {
		t.Fatalf("expected 1 follow-up after assignment upload, got %d", len(followUps))
	}
	if followUps[0].Status != types.StatusUrgente {
		t.Errorf("never-contacted beneficiary status = %s, want urgente", followUps[0].Status)
	}
}

func TestReadEndpointsRoundTrip(t *testing.T) {
	h, _ := newTestHandler(t)

	// Upload both datasets, then read back the derived views.
	assignBody, _ := json.Marshal([]ingestion.RawOperatorPayload{
		{
			OperatorID:   "op-1",
			OperatorName: "Ana Reyes López",
			Assignments: []types.RawAssignment{
				{BeneficiaryName: "Juan Pérez", Phone: "+56 9 1234 5678", Commune: "Talca"},
			},
		},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/assignments", bytes.NewReader(assignBody))
	h.HandleAssignments(httptest.NewRecorder(), req)

	callsBody, _ := json.Marshal(batchRequest{Rows: [][]any{
		callRow("1", "28-03-2025", "Juan Pérez", "912345678", "Ana Reyes López", "120", "Llamado exitoso"),
	}})
	req = httptest.NewRequest(http.MethodPost, "/api/calls/batch", bytes.NewReader(callsBody))
	h.HandleCallBatch(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	h.HandleOperatorMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/metrics/operators", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	var metrics []types.OperatorMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("failed to parse metrics: %v", err)
	}
	if len(metrics) != 1 || metrics[0].TotalCalls != 1 || metrics[0].SuccessfulCalls != 1 {
		t.Errorf("metrics = %+v", metrics)
	}

	rec = httptest.NewRecorder()
	h.HandleFollowUps(rec, httptest.NewRequest(http.MethodGet, "/api/followups", nil))
	var followUps []types.FollowUpRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &followUps); err != nil {
		t.Fatalf("failed to parse follow-ups: %v", err)
	}
	if len(followUps) != 1 || followUps[0].CallCount != 1 {
		t.Errorf("followUps = %+v", followUps)
	}
}

func TestHandleHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
