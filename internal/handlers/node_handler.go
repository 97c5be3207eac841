package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shelving/internal/models"
	"shelving/internal/services"
)

// NodeHandler handles HTTP requests for racks.
type NodeHandler struct {
	service  *services.NodeService
	validate *validator.Validate
}

// NewNodeHandler creates a new NodeHandler.
func NewNodeHandler(service *services.NodeService) *NodeHandler {
	return &NodeHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the rack routes.
func (h *NodeHandler) RegisterRoutes(router fiber.Router) {
	nodeRoutes := router.Group("/nodes")
	nodeRoutes.Get("/", h.HandleGetNodes)
	nodeRoutes.Post("/", h.HandleCreateNode)
	nodeRoutes.Delete("/:id", h.HandleDeleteNode)
}

// HandleGetNodes lists all racks.
func (h *NodeHandler) HandleGetNodes(c *fiber.Ctx) error {
	nodes, err := h.service.GetAllNodes()
	if err != nil {
		return errorJSON(c, err)
	}
	if nodes == nil {
		nodes = []models.Node{}
	}
	return c.JSON(nodes)
}

// HandleCreateNode creates a rack with a generated docId.
func (h *NodeHandler) HandleCreateNode(c *fiber.Ctx) error {
	var node models.Node
	if err := c.BodyParser(&node); err != nil {
		log.Printf("Error parsing node request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	node.DocID = "" // ids are generated server-side
	if err := h.validate.Struct(node); err != nil {
		return validationJSON(c, err)
	}

	if err := h.service.CreateNode(&node); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}

// HandleDeleteNode removes a rack, cascading to its boxes and records.
func (h *NodeHandler) HandleDeleteNode(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.service.DeleteNode(id); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}
