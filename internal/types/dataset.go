package types

// CallBatch is one uploaded, normalized call dataset version. The newest
// batch supersedes all previous ones.
type CallBatch struct {
	BatchID    string       `json:"batchId" dynamodbav:"BatchID"`
	UploadedAt string       `json:"uploadedAt" dynamodbav:"UploadedAt"` // RFC3339
	Records    []CallRecord `json:"records" dynamodbav:"Records"`
}

// AssignmentSet is one uploaded assignment dataset version
type AssignmentSet struct {
	SetID      string                `json:"setId" dynamodbav:"SetID"`
	UploadedAt string                `json:"uploadedAt" dynamodbav:"UploadedAt"` // RFC3339
	Operators  []OperatorAssignments `json:"operators" dynamodbav:"Operators"`
}
