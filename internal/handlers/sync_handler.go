package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"shelving/internal/services"
)

// SyncHandler handles image backup, restore, and cloud sharing requests.
type SyncHandler struct {
	service *services.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(service *services.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// RegisterRoutes registers the backup and share routes.
func (h *SyncHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/backup", h.HandleExport)
	router.Post("/backup/restore", h.HandleRestore)
	router.Post("/share", h.HandleShare)
}

// HandleExport streams the serialized image as a downloadable backup file.
func (h *SyncHandler) HandleExport(c *fiber.Ctx) error {
	filename, data, err := h.service.ExportImage()
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/octet-stream")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// HandleRestore replaces the live image with the uploaded backup. The raw
// request body is the image bytes.
func (h *SyncHandler) HandleRestore(c *fiber.Ctx) error {
	data := c.Body()
	if err := h.service.ImportImage(data); err != nil {
		return errorJSON(c, err)
	}
	log.Printf("Database image restored (%d bytes)", len(data))
	return successJSON(c)
}

// ShareRequest optionally carries the paste service master key; once seen
// it is remembered for subsequent shares.
type ShareRequest struct {
	APIKey string `json:"apiKey"`
}

// HandleShare uploads the current image to the paste service and returns
// the snapshot id and share link.
func (h *SyncHandler) HandleShare(c *fiber.Ctx) error {
	var req ShareRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	binID, shareURL, err := h.service.Share(c.Context(), req.APIKey)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"syncId": binID, "shareUrl": shareURL})
}
