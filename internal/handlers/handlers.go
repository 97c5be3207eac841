// Package handlers exposes the REST surface over the embedded store. Every
// handler converts service errors into a (status, {error}) pair at this
// boundary; nothing below the handlers writes to the wire.
package handlers

import (
	"fmt"
	"log"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shelving/internal/apperr"
)

// paramID extracts the :id path segment, undoing URL escaping the way the
// clients send it.
func paramID(c *fiber.Ctx) (string, error) {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil || id == "" {
		return "", apperr.Invalid("malformed identifier")
	}
	return id, nil
}

// errorJSON writes err as the API's {error} document with its mapped status.
func errorJSON(c *fiber.Ctx, err error) error {
	status, msg := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// validationJSON writes a field-by-field validation failure.
func validationJSON(c *fiber.Ctx, err error) error {
	fields := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("failed on the '%s' rule", e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

// successJSON is the mutation acknowledgement shared by all entity handlers.
func successJSON(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

// NotFound is the terminal /api handler for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
}
