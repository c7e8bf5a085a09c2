package types

import "time"

// OperatorMetrics is the per-operator aggregate derived from one call batch
// joined against the current assignment set. Recomputed in full per request.
type OperatorMetrics struct {
	OperatorName           string `json:"operatorName"`
	TotalCalls             int    `json:"totalCalls"`
	SuccessfulCalls        int    `json:"successfulCalls"`
	FailedCalls            int    `json:"failedCalls"`
	AverageDurationSeconds int    `json:"averageDurationSeconds"`
	SuccessRate            int    `json:"successRate"` // 0-100, rounded
	AssignedBeneficiaries  int    `json:"assignedBeneficiaries"`
	ContactedBeneficiaries int    `json:"contactedBeneficiaries"`
	UncontactedBeneficiaries int  `json:"uncontactedBeneficiaries"`
	CoverageRate           int    `json:"coverageRate"` // 0-100, rounded
}

// FollowUpStatus is the three-state urgency classification
type FollowUpStatus string

const (
	StatusAlDia     FollowUpStatus = "al-dia"   // last successful contact ≤ 15 days ago
	StatusPendiente FollowUpStatus = "pendiente" // 16-30 days
	StatusUrgente   FollowUpStatus = "urgente"   // > 30 days, or never contacted
)

// FollowUpRecord is the per-beneficiary urgency classification. One record
// exists for every beneficiary in the assignment set, matched calls or not.
type FollowUpRecord struct {
	BeneficiaryName       string         `json:"beneficiaryName"`
	OperatorName          string         `json:"operatorName"`
	Phone                 string         `json:"phone"`
	Commune               string         `json:"commune"`
	Status                FollowUpStatus `json:"status"`
	LastCallDateFormatted string         `json:"lastCallDateFormatted"`
	CallCount             int            `json:"callCount"`
	SuccessfulCallCount   int            `json:"successfulCallCount"`
	DaysSinceLastCall     *int           `json:"daysSinceLastCall"` // nil when no successful contact exists
	StatusReason          string         `json:"statusReason"`
}

// IngestStats summarizes one batch upload so admins can see how much of the
// export degraded to sentinels instead of silently losing rows.
type IngestStats struct {
	BatchID               string `json:"batchId"`
	TotalRows             int    `json:"totalRows"`
	RecordsIngested       int    `json:"recordsIngested"`
	DegradedDates         int    `json:"degradedDates"`
	UnidentifiedOperators int    `json:"unidentifiedOperators"`
	UnusablePhones        int    `json:"unusablePhones"`
	OperatorColumn        int    `json:"operatorColumn"`
}

// DashboardSnapshot is pushed to websocket clients after each recompute
type DashboardSnapshot struct {
	Type      string            `json:"type"` // "dashboard_snapshot"
	Timestamp time.Time         `json:"timestamp"`
	Operators []OperatorMetrics `json:"operators"`
	FollowUps []FollowUpRecord  `json:"followUps"`
}
