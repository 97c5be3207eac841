package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shelving/internal/models"
	"shelving/internal/services"
)

// BlockHandler handles HTTP requests for boxes.
type BlockHandler struct {
	service  *services.BlockService
	validate *validator.Validate
}

// NewBlockHandler creates a new BlockHandler.
func NewBlockHandler(service *services.BlockService) *BlockHandler {
	return &BlockHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the box routes.
func (h *BlockHandler) RegisterRoutes(router fiber.Router) {
	blockRoutes := router.Group("/blocks")
	blockRoutes.Get("/", h.HandleGetBlocks)
	blockRoutes.Post("/", h.HandleCreateBlock)
	blockRoutes.Delete("/:id", h.HandleDeleteBlock)
	blockRoutes.Put("/:id/move", h.HandleMoveBlock)
}

// HandleGetBlocks lists all boxes.
func (h *BlockHandler) HandleGetBlocks(c *fiber.Ctx) error {
	blocks, err := h.service.GetAllBlocks()
	if err != nil {
		return errorJSON(c, err)
	}
	if blocks == nil {
		blocks = []models.Block{}
	}
	return c.JSON(blocks)
}

// HandleCreateBlock creates a box under its rack label.
func (h *BlockHandler) HandleCreateBlock(c *fiber.Ctx) error {
	var block models.Block
	if err := c.BodyParser(&block); err != nil {
		log.Printf("Error parsing block request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	block.DocID = ""
	if err := h.validate.Struct(block); err != nil {
		return validationJSON(c, err)
	}

	if err := h.service.CreateBlock(&block); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}

// HandleDeleteBlock removes a box and the records it holds.
func (h *BlockHandler) HandleDeleteBlock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.service.DeleteBlock(id); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}

// MoveBlockRequest is the request body for a box move.
type MoveBlockRequest struct {
	TargetNodeID string `json:"targetNodeId" validate:"required"`
}

// HandleMoveBlock re-parents a box to another rack.
func (h *BlockHandler) HandleMoveBlock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req MoveBlockRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing block move request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	if err := h.service.MoveBlock(id, req.TargetNodeID); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}
