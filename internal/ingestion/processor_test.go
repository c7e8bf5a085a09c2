package ingestion

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

func testRow() []string {
	return []string{
		"1", "09:15", "Pedro López", "Talca", "Saliente", "911111111",
		"09:15:00", "María Soto Pérez", "90", "Llamado exitoso", "", "",
	}
}

func newTestProcessor() *Processor {
	return NewProcessor(nil, zerolog.Nop())
}

func TestProcessBasicRow(t *testing.T) {
	rows := [][]string{testRow()}
	records, stats := newTestProcessor().Process(rows)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]

	if r.BeneficiaryName != "Pedro López" {
		t.Errorf("beneficiary = %q", r.BeneficiaryName)
	}
	if r.OperatorNameRaw != "María Soto Pérez" {
		t.Errorf("operator = %q, detection must skip the time-like columns", r.OperatorNameRaw)
	}
	if r.DurationSeconds == nil || *r.DurationSeconds != 90 {
		t.Errorf("duration = %v, want 90", r.DurationSeconds)
	}
	if !r.IsSuccessful || r.Category != types.ResultExitosa {
		t.Errorf("classification: successful=%v category=%s", r.IsSuccessful, r.Category)
	}
	if stats.OperatorColumn != 7 {
		t.Errorf("operator column = %d, want 7", stats.OperatorColumn)
	}
	if stats.RecordsIngested != 1 {
		t.Errorf("records ingested = %d", stats.RecordsIngested)
	}
}

func TestProcessSerialDate(t *testing.T) {
	row := testRow()
	row[1] = "45273"
	records, _ := newTestProcessor().Process([][]string{row})
	if records[0].Date != "13-12-2023" {
		t.Errorf("date = %q, want 13-12-2023", records[0].Date)
	}
}

func TestProcessDegradedRowSurvives(t *testing.T) {
	row := testRow()
	row[1] = "fechamala"
	row[5] = "123"
	row[7] = "10:30"
	row[8] = ""    // missing duration stays nil
	row[9] = "456" // result text that matches nothing
	row[2] = "x"   // keep the rescue scan from finding a name

	records, stats := newTestProcessor().Process([][]string{row})

	if len(records) != 1 {
		t.Fatal("a degraded row must still produce a record")
	}
	r := records[0]
	if r.Date != types.DateInvalid {
		t.Errorf("date = %q, want sentinel", r.Date)
	}
	if r.OperatorNameRaw != types.OperatorUnidentified {
		t.Errorf("operator = %q, want %q", r.OperatorNameRaw, types.OperatorUnidentified)
	}
	if r.DurationSeconds != nil {
		t.Errorf("duration = %v, want nil", r.DurationSeconds)
	}
	if stats.DegradedDates != 1 || stats.UnidentifiedOperators != 1 || stats.UnusablePhones != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProcessSkipsEmptyRows(t *testing.T) {
	records, stats := newTestProcessor().Process([][]string{{"", "", ""}, testRow()})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if stats.TotalRows != 2 || stats.RecordsIngested != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestResolvePhonesFallbackOrder(t *testing.T) {
	raw := types.RawAssignment{
		Telefono:      "922222222",
		Fono:          "933333333", // shadowed by telefono
		Phones:        []string{"911111111"},
		Telefonos:     "944444444;955555555",
	}
	got := ResolvePhones(raw)
	want := []string{"911111111", "944444444;955555555", "922222222"}
	if len(got) != len(want) {
		t.Fatalf("ResolvePhones = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolvePhones[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeAssignments(t *testing.T) {
	ops := NormalizeAssignments([]RawOperatorPayload{
		{
			OperatorID:   "op-1",
			OperatorName: " Ana Reyes ",
			Assignments: []types.RawAssignment{
				{BeneficiaryName: "Juan Pérez", Commune: "Talca", Phone: "987654321"},
			},
		},
	})

	if len(ops) != 1 || len(ops[0].Assignments) != 1 {
		t.Fatalf("unexpected shape: %+v", ops)
	}
	a := ops[0].Assignments[0]
	if ops[0].OperatorName != "Ana Reyes" || a.OperatorName != "Ana Reyes" {
		t.Errorf("operator name not trimmed: %q", ops[0].OperatorName)
	}
	if len(a.Phones) != 1 || a.Phones[0] != "987654321" {
		t.Errorf("phones = %v", a.Phones)
	}
}

func TestStringifyRows(t *testing.T) {
	rows := StringifyRows([][]any{{"1", float64(45273), "Pedro López", nil, true}})
	want := []string{"1", "45273", "Pedro López", "", "true"}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("cell %d = %q, want %q", i, rows[0][i], w)
		}
	}
}
