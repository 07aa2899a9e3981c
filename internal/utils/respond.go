// Package utils holds small fiber helpers shared by the handlers.
package utils

import (
	"encoding/json"
	"errors"

	"issuebridge/internal/errmsg"

	"github.com/gofiber/fiber/v3"
)

// StatusError writes se as a {"message": ...} body with its status code.
func StatusError(c fiber.Ctx, se errmsg.StatusError) error {
	return c.Status(se.StatusCode).JSON(fiber.Map{
		"message": se.Message,
	})
}

var errLocalsMissing = errors.New("locals not set")

// SetLocals stores data under name as its JSON encoding.
func SetLocals(c fiber.Ctx, name string, data any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	c.Locals(name, string(encoded))
	return nil
}

// GetLocals decodes a value previously stored with SetLocals into result.
func GetLocals(c fiber.Ctx, name string, result any) error {
	raw, _ := c.Locals(name).(string)
	if raw == "" {
		return errLocalsMissing
	}

	return json.Unmarshal([]byte(raw), result)
}
