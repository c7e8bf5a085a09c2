package engine

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/ingestion"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Full pipeline: raw row -> ingestion -> engine -> metrics and follow-ups
func TestEndToEndScenario(t *testing.T) {
	row := []string{
		"1", daysAgo(3), "Juan Pérez", "Talca", "Saliente", "+56987654321",
		"10:00:00", "Ana Reyes", "120", "Llamado exitoso", "", "ext-1",
	}

	processor := ingestion.NewProcessor(nil, zerolog.Nop())
	records, stats := processor.Process([][]string{row})
	if stats.RecordsIngested != 1 {
		t.Fatalf("ingest stats = %+v", stats)
	}

	e := newTestEngine()
	e.ReplaceAssignments(anaAssignments())
	e.ReplaceCalls(records)

	metrics := e.OperatorMetrics()
	if len(metrics) != 1 {
		t.Fatalf("expected 1 operator, got %d", len(metrics))
	}
	m := metrics[0]
	if m.OperatorName != "Ana Reyes" || m.TotalCalls != 1 || m.SuccessfulCalls != 1 ||
		m.FailedCalls != 0 || m.SuccessRate != 100 || m.AverageDurationSeconds != 120 {
		t.Errorf("metrics = %+v", m)
	}

	followups := e.FollowUps()
	if len(followups) != 1 {
		t.Fatalf("expected 1 follow-up, got %d", len(followups))
	}
	fu := followups[0]
	if fu.BeneficiaryName != "Juan Pérez" || fu.Status != types.StatusAlDia ||
		fu.CallCount != 1 || fu.SuccessfulCallCount != 1 {
		t.Errorf("follow-up = %+v", fu)
	}
	if fu.LastCallDateFormatted != daysAgo(3) {
		t.Errorf("lastCallDateFormatted = %q, want %q", fu.LastCallDateFormatted, daysAgo(3))
	}
	if fu.Commune != "Talca" || fu.OperatorName != "Ana Reyes" {
		t.Errorf("assignment fields not carried: %+v", fu)
	}
}
