// Package ingestion turns raw spreadsheet rows into normalized call records
// and raw assignment payloads into canonical assignments. A malformed row
// never aborts a batch; its fields degrade to sentinels and processing
// continues.
package ingestion

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/classify"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/detect"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/metrics"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/normalize"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Nominal column layout of a call export (0-based). The operator column is
// the exception: its position drifts between exports and is detected per
// batch, everything else keeps its slot.
const (
	colID          = 0
	colDate        = 1
	colBeneficiary = 2
	colCommune     = 3
	colDirection   = 4
	colPhone       = 5
	colTimeOfDay   = 6
	colDuration    = 8
	colResult      = 9
	colObservation = 10
	colExternalID  = 11
)

// Processor converts raw call batches into CallRecords
type Processor struct {
	detector *detect.Detector
	logger   zerolog.Logger
}

// NewProcessor creates a Processor. A nil detector gets the default scorer.
func NewProcessor(detector *detect.Detector, logger zerolog.Logger) *Processor {
	if detector == nil {
		detector = detect.New(nil)
	}
	return &Processor{detector: detector, logger: logger}
}

// Process normalizes a full batch of positional rows. The operator column is
// detected once from the leading rows and applied to the whole batch.
func (p *Processor) Process(rows [][]string) ([]types.CallRecord, types.IngestStats) {
	stats := types.IngestStats{TotalRows: len(rows)}
	stats.OperatorColumn = p.detector.OperatorColumn(rows)

	records := make([]types.CallRecord, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}

		date := normalize.Date(cell(row, colDate))
		if date == types.DateInvalid || date == types.DateMissing {
			stats.DegradedDates++
			metrics.RowsDegradedTotal.WithLabelValues("date").Inc()
		}

		operator := detect.OperatorForRow(row, stats.OperatorColumn)
		if operator == types.OperatorUnidentified {
			stats.UnidentifiedOperators++
			metrics.RowsDegradedTotal.WithLabelValues("operator").Inc()
		}

		phone := cell(row, colPhone)
		if _, ok := normalize.Phone(phone); !ok {
			stats.UnusablePhones++
			metrics.RowsDegradedTotal.WithLabelValues("phone").Inc()
		}

		resultText := cell(row, colResult)

		records = append(records, types.CallRecord{
			ID:              recordID(row),
			BeneficiaryName: cell(row, colBeneficiary),
			Commune:         cell(row, colCommune),
			OperatorNameRaw: operator,
			Phone:           phone,
			Date:            date,
			TimeOfDay:       cell(row, colTimeOfDay),
			DurationSeconds: parseDuration(cell(row, colDuration)),
			ResultText:      resultText,
			Observation:     cell(row, colObservation),
			ExternalID:      cell(row, colExternalID),
			IsSuccessful:    classify.IsSuccessful(resultText),
			Category:        classify.Category(resultText),
		})
		metrics.RowsIngestedTotal.Inc()
	}

	stats.RecordsIngested = len(records)

	p.logger.Info().
		Int("total_rows", stats.TotalRows).
		Int("records", stats.RecordsIngested).
		Int("operator_column", stats.OperatorColumn).
		Int("degraded_dates", stats.DegradedDates).
		Int("unidentified_operators", stats.UnidentifiedOperators).
		Int("unusable_phones", stats.UnusablePhones).
		Msg("call batch processed")

	return records, stats
}

// parseDuration keeps the duration optional: a missing or non-numeric cell
// stays nil and only defaults to zero at the aggregation boundary.
func parseDuration(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		n := int(f)
		return &n
	}
	return nil
}

func recordID(row []string) string {
	if id := cell(row, colID); id != "" {
		return id
	}
	return uuid.New().String()
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
