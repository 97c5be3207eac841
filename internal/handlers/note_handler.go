package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shelving/internal/models"
	"shelving/internal/services"
)

// NoteHandler handles HTTP requests for sticky notes.
type NoteHandler struct {
	service  *services.NoteService
	validate *validator.Validate
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service *services.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the note routes.
func (h *NoteHandler) RegisterRoutes(router fiber.Router) {
	noteRoutes := router.Group("/notes")
	noteRoutes.Get("/", h.HandleGetNotes)
	noteRoutes.Post("/", h.HandleCreateNote)
	noteRoutes.Delete("/:id", h.HandleDeleteNote)
}

// HandleGetNotes lists all notes.
func (h *NoteHandler) HandleGetNotes(c *fiber.Ctx) error {
	notes, err := h.service.GetAllNotes()
	if err != nil {
		return errorJSON(c, err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return c.JSON(notes)
}

// HandleCreateNote creates a note.
func (h *NoteHandler) HandleCreateNote(c *fiber.Ctx) error {
	var note models.Note
	if err := c.BodyParser(&note); err != nil {
		log.Printf("Error parsing note request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	note.DocID = ""
	if err := h.validate.Struct(note); err != nil {
		return validationJSON(c, err)
	}

	if err := h.service.CreateNote(&note); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}

// HandleDeleteNote removes a note.
func (h *NoteHandler) HandleDeleteNote(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := h.service.DeleteNote(id); err != nil {
		return errorJSON(c, err)
	}
	return successJSON(c)
}
