package ingestion

import (
	"strconv"
	"strings"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// RawOperatorPayload is the wire form of one operator's assignment upload
type RawOperatorPayload struct {
	OperatorID   string                `json:"operatorId"`
	OperatorName string                `json:"operatorName"`
	Assignments  []types.RawAssignment `json:"assignments"`
}

// ResolvePhones collects every phone value carried by a raw assignment. The
// multi-value list and the packed field always contribute; of the
// alternately named single-value fields only the first non-empty one does,
// in a fixed fallback order: phone, telefono, fono, numero_cliente. This is
// the single place that fallback chain lives.
func ResolvePhones(raw types.RawAssignment) []string {
	phones := make([]string, 0, len(raw.Phones)+2)
	for _, p := range raw.Phones {
		if strings.TrimSpace(p) != "" {
			phones = append(phones, p)
		}
	}
	if strings.TrimSpace(raw.Telefonos) != "" {
		phones = append(phones, raw.Telefonos)
	}
	for _, v := range []string{raw.Phone, raw.Telefono, raw.Fono, raw.NumeroCliente} {
		if strings.TrimSpace(v) != "" {
			phones = append(phones, v)
			break
		}
	}
	return phones
}

// NormalizeAssignments converts uploaded operator payloads into the
// canonical assignment set the engine reads.
func NormalizeAssignments(payloads []RawOperatorPayload) []types.OperatorAssignments {
	out := make([]types.OperatorAssignments, 0, len(payloads))
	for _, p := range payloads {
		op := types.OperatorAssignments{
			OperatorID:   p.OperatorID,
			OperatorName: strings.TrimSpace(p.OperatorName),
			Assignments:  make([]types.Assignment, 0, len(p.Assignments)),
		}
		for _, raw := range p.Assignments {
			op.Assignments = append(op.Assignments, types.Assignment{
				OperatorID:      p.OperatorID,
				OperatorName:    op.OperatorName,
				BeneficiaryName: strings.TrimSpace(raw.BeneficiaryName),
				Phones:          ResolvePhones(raw),
				Commune:         strings.TrimSpace(raw.Commune),
			})
		}
		out = append(out, op)
	}
	return out
}

// StringifyRows converts the mixed string/number cells of a JSON batch
// upload into the string rows the processor consumes. Spreadsheet serial
// dates arrive as JSON numbers and must survive the round trip unmangled.
func StringifyRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = stringifyCell(v)
		}
		out[i] = cells
	}
	return out
}

func stringifyCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		if c {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
