package models

// ComplianceDocument describes one document required for export trade.
type ComplianceDocument struct {
	Document    string `json:"document"`
	Description string `json:"description"`
}

// ValidationResult reports whether a submitted document carries all
// required compliance fields.
type ValidationResult struct {
	Status        string   `json:"status"` // "success" or "fail"
	Message       string   `json:"message,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}
