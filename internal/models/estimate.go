package models

// PackageDetails describes a shipment for cost estimation.
// Weight is in kilograms, dimensions in centimeters.
type PackageDetails struct {
	Source      string  `json:"source" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Length      float64 `json:"length" validate:"required,gt=0"`
	Width       float64 `json:"width" validate:"required,gt=0"`
	Height      float64 `json:"height" validate:"required,gt=0"`
}

// Estimate is a single carrier quote.
type Estimate struct {
	Provider    string  `json:"provider"`
	Cost        float64 `json:"cost"`
	Duration    string  `json:"duration"`     // e.g. "3-5 days"
	ServiceType string  `json:"service_type"` // "Express", "Standard" or "Economy"
}
