package handlers

import (
	"log"

	"exportease/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ComplianceHandler handles HTTP requests for compliance document tooling.
type ComplianceHandler struct {
	complianceService *services.ComplianceService
}

// NewComplianceHandler creates a new ComplianceHandler.
func NewComplianceHandler(complianceService *services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{
		complianceService: complianceService,
	}
}

// RegisterRoutes registers the compliance routes with the Fiber app.
func (h *ComplianceHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/generate-documents", h.HandleGenerateDocuments)
	router.Post("/validate-document", h.HandleValidateDocument)
	router.Get("/generate-synthetic-data", h.HandleGenerateSyntheticData)
}

// HandleGenerateDocuments returns a random selection of required export documents.
func (h *ComplianceHandler) HandleGenerateDocuments(c *fiber.Ctx) error {
	docs := h.complianceService.GenerateDocuments()
	return c.JSON(fiber.Map{
		"compliance_documents": docs,
	})
}

// HandleValidateDocument checks a posted JSON document for required fields.
func (h *ComplianceHandler) HandleValidateDocument(c *fiber.Ctx) error {
	result, err := h.complianceService.ValidateDocument(c.Body())
	if err != nil {
		log.Printf("Error validating document: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document payload",
		})
	}
	return c.JSON(result)
}

// HandleGenerateSyntheticData returns sample data for a document type.
func (h *ComplianceHandler) HandleGenerateSyntheticData(c *fiber.Ctx) error {
	documentType := c.Query("document_type")
	if documentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "document_type query parameter is required",
		})
	}

	data, err := h.complianceService.GenerateSyntheticData(documentType)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"document_type": documentType,
		"data":          data,
	})
}
