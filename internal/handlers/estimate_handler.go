package handlers

import (
	"log"

	"exportease/internal/models"
	"exportease/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EstimateHandler handles HTTP requests for shipping cost estimates.
type EstimateHandler struct {
	estimateService *services.EstimateService
	validate        *validator.Validate
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(estimateService *services.EstimateService) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the estimate routes with the Fiber app.
func (h *EstimateHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/estimates", h.HandleEstimates)
}

// HandleEstimates returns three carrier quotes for the posted package details.
func (h *EstimateHandler) HandleEstimates(c *fiber.Ctx) error {
	var pkg models.PackageDetails
	if err := c.BodyParser(&pkg); err != nil {
		log.Printf("Error parsing estimate request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(pkg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	estimates := h.estimateService.GetEstimates(pkg)
	return c.JSON(fiber.Map{
		"estimates": estimates,
	})
}
