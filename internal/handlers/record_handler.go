package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shelving/internal/models"
	"shelving/internal/services"
)

// RecordHandler handles HTTP requests for file records.
type RecordHandler struct {
	service  *services.RecordService
	validate *validator.Validate
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(service *services.RecordService) *RecordHandler {
	return &RecordHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the record routes.
func (h *RecordHandler) RegisterRoutes(router fiber.Router) {
	recordRoutes := router.Group("/records")
	recordRoutes.Get("/", h.HandleGetRecords)
	recordRoutes.Post("/", h.HandleCreateRecord)
	recordRoutes.Delete("/:id", h.HandleDeleteRecord)
	recordRoutes.Put("/:id/move", h.HandleMoveRecord)
}

// HandleGetRecords lists all records.
func (h *RecordHandler) HandleGetRecords(c *fiber.Ctx) error {
	records, err := h.service.GetAllRecords()
	if err != nil {
		return errorJSON(c, err)
	}
	if records == nil {
		records = []models.Record{}
	}
	return c.JSON(records)
}

// HandleCreateRecord files a record under a box. Legacy clients send a null
// blockDocId and rely on the labels; the backfill stamps the stable
// reference on the next load.
func (h *RecordHandler) HandleCreateRecord(c *fiber.Ctx) error {
	var record models.Record
	if err := c.BodyParser(&record); err != nil {
		log.Printf("Error parsing record request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	record.DocID = ""
	if err := h.validate.Struct(record); err != nil {
		return validationJSON(c, err)
	}

	if err := h.service.CreateRecord(&record); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}

// HandleDeleteRecord removes a record.
func (h *RecordHandler) HandleDeleteRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.service.DeleteRecord(id); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}

// MoveRecordRequest is the request body for a record move.
type MoveRecordRequest struct {
	TargetNodeID  string `json:"targetNodeId" validate:"required"`
	TargetBlockID string `json:"targetBlockId" validate:"required"` // target box docId
}

// HandleMoveRecord re-parents a record to another box.
func (h *RecordHandler) HandleMoveRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req MoveRecordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing record move request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	if err := h.service.MoveRecord(id, req.TargetNodeID, req.TargetBlockID); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}
