package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"exportease/internal/models"
)

// documentCatalog lists the export documents the assistant knows about.
var documentCatalog = []models.ComplianceDocument{
	{Document: "IEC", Description: "Importer-Exporter Code, required for international trade."},
	{Document: "AD Code", Description: "Authorized Dealer Code for foreign currency transactions."},
	{Document: "Commercial Invoice", Description: "Details of goods, value, and sale terms."},
	{Document: "Bill of Lading", Description: "Proof of goods received for shipment."},
	{Document: "Packing List", Description: "Details of shipment contents."},
}

// requiredFields are the fields every submitted compliance document must carry.
var requiredFields = []string{"IEC", "AD Code", "Shipping Bill", "Commercial Invoice"}

// ComplianceService handles compliance document generation and validation.
// It is stateless; the package-level rand source is safe for concurrent use.
type ComplianceService struct{}

// NewComplianceService creates a new ComplianceService.
func NewComplianceService() *ComplianceService {
	return &ComplianceService{}
}

// GenerateDocuments returns a random selection of 3 to 5 catalog documents.
func (s *ComplianceService) GenerateDocuments() []models.ComplianceDocument {
	numDocs := 3 + rand.Intn(len(documentCatalog)-2) // 3..5
	perm := rand.Perm(len(documentCatalog))

	selected := make([]models.ComplianceDocument, 0, numDocs)
	for _, idx := range perm[:numDocs] {
		selected = append(selected, documentCatalog[idx])
	}
	return selected
}

// ValidateDocument checks a JSON document for the required compliance fields.
// A malformed document is an error; a well-formed document with missing
// fields yields a "fail" result listing exactly what is absent.
func (s *ComplianceService) ValidateDocument(content []byte) (*models.ValidationResult, error) {
	var documentData map[string]interface{}
	if err := json.Unmarshal(content, &documentData); err != nil {
		return nil, fmt.Errorf("invalid document payload: %w", err)
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := documentData[field]; !ok {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return &models.ValidationResult{
			Status:        "fail",
			MissingFields: missing,
		}, nil
	}

	return &models.ValidationResult{
		Status:  "success",
		Message: "All required fields are present",
	}, nil
}

// GenerateSyntheticData produces a plausible field set for the named
// document type, for demos and form pre-filling.
func (s *ComplianceService) GenerateSyntheticData(documentType string) (map[string]string, error) {
	switch documentType {
	case "IEC":
		return map[string]string{
			"IEC":        fmt.Sprintf("%010d", rand.Intn(1_000_000_000)),
			"firm_name":  "Acme Exports Pvt Ltd",
			"issue_date": time.Now().AddDate(-1, 0, 0).Format("2006-01-02"),
		}, nil
	case "AD Code":
		return map[string]string{
			"AD Code":   fmt.Sprintf("%014d", rand.Int63n(100_000_000_000_000)),
			"bank_name": "State Bank of India",
			"branch":    "Mumbai Fort",
		}, nil
	case "Commercial Invoice":
		return map[string]string{
			"invoice_number": fmt.Sprintf("INV-%06d", rand.Intn(1_000_000)),
			"date":           time.Now().Format("2006-01-02"),
			"value":          fmt.Sprintf("%d.00", 1000+rand.Intn(99000)),
			"currency":       "USD",
			"terms":          "FOB",
		}, nil
	case "Bill of Lading":
		return map[string]string{
			"bl_number":         fmt.Sprintf("BL%08d", rand.Intn(100_000_000)),
			"vessel":            "MV Ocean Star",
			"port_of_loading":   "Nhava Sheva",
			"port_of_discharge": "Rotterdam",
		}, nil
	case "Packing List":
		return map[string]string{
			"packages":     fmt.Sprintf("%d", 1+rand.Intn(100)),
			"gross_weight": fmt.Sprintf("%dkg", 10+rand.Intn(990)),
			"net_weight":   fmt.Sprintf("%dkg", 5+rand.Intn(900)),
			"dimensions":   "120x80x100cm",
		}, nil
	case "Shipping Bill":
		return map[string]string{
			"shipping_bill_number": fmt.Sprintf("SB%07d", rand.Intn(10_000_000)),
			"date":                 time.Now().Format("2006-01-02"),
			"port_code":            "INNSA1",
		}, nil
	default:
		return nil, fmt.Errorf("unknown document type: %s", documentType)
	}
}
