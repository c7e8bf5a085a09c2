package types

// CallResult categorizes the outcome of a call
type CallResult string

const (
	ResultExitosa CallResult = "exitosa"
	ResultFallida CallResult = "fallida"
)

// Date sentinels produced by normalization when a raw value cannot be parsed.
// Downstream consumers detect degraded rows by matching these exact strings.
const (
	DateInvalid = "Fecha inválida"
	DateMissing = "N/A"
)

// OperatorUnidentified is assigned when no column of a row yields a plausible operator name
const OperatorUnidentified = "No identificado"

// CallRecord is one normalized call attempt. Records are immutable after
// ingestion and replaced wholesale when a new batch is uploaded.
type CallRecord struct {
	ID              string     `json:"id" dynamodbav:"ID"`
	BeneficiaryName string     `json:"beneficiaryName" dynamodbav:"BeneficiaryName"`
	Commune         string     `json:"commune" dynamodbav:"Commune"`
	OperatorNameRaw string     `json:"operatorNameRaw" dynamodbav:"OperatorNameRaw"`
	Phone           string     `json:"phone" dynamodbav:"Phone"`
	Date            string     `json:"date" dynamodbav:"Date"` // DD-MM-YYYY or a date sentinel
	TimeOfDay       string     `json:"timeOfDay" dynamodbav:"TimeOfDay"`
	DurationSeconds *int       `json:"durationSeconds" dynamodbav:"DurationSeconds"` // nil when the source cell was missing or non-numeric
	ResultText      string     `json:"resultText" dynamodbav:"ResultText"`
	Observation     string     `json:"observation" dynamodbav:"Observation"`
	ExternalID      string     `json:"externalId" dynamodbav:"ExternalID"`
	IsSuccessful    bool       `json:"isSuccessful" dynamodbav:"IsSuccessful"`
	Category        CallResult `json:"category" dynamodbav:"Category"`
}

// Assignment links one beneficiary to the operator responsible for their
// periodic check-in calls. The engine only reads assignments; ownership
// stays with the upload/persistence side.
type Assignment struct {
	OperatorID      string   `json:"operatorId" dynamodbav:"OperatorID"`
	OperatorName    string   `json:"operatorName" dynamodbav:"OperatorName"`
	BeneficiaryName string   `json:"beneficiaryName" dynamodbav:"BeneficiaryName"`
	Phones          []string `json:"phones" dynamodbav:"Phones"`
	Commune         string   `json:"commune" dynamodbav:"Commune"`
}

// RawAssignment is the wire form of an assignment. Spreadsheet exports are not
// consistent about phone field naming, so every historical alias is accepted
// and resolved by ingestion.ResolvePhones in a fixed fallback order.
type RawAssignment struct {
	OperatorID      string   `json:"operatorId"`
	OperatorName    string   `json:"operatorName"`
	BeneficiaryName string   `json:"beneficiary"`
	Commune         string   `json:"comuna"`
	Phone           string   `json:"phone"`
	Telefono        string   `json:"telefono"`
	Fono            string   `json:"fono"`
	NumeroCliente   string   `json:"numero_cliente"`
	Phones          []string `json:"phones"`
	Telefonos       string   `json:"telefonos"` // packed multi-phone field
}

// OperatorAssignments groups one operator's beneficiaries
type OperatorAssignments struct {
	OperatorID   string       `json:"operatorId" dynamodbav:"OperatorID"`
	OperatorName string       `json:"operatorName" dynamodbav:"OperatorName"`
	Assignments  []Assignment `json:"assignments" dynamodbav:"Assignments"`
}
