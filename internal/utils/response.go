package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope used for health and error responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends an enveloped 200 response.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an enveloped error. The message is returned verbatim, so callers
// must only pass text that is safe to show to clients.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}

// ErrorHandler is the fiber error handler that keeps error bodies in the API envelope.
// Only fiber errors expose their message; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fiberErr, ok := err.(*fiber.Error); ok {
		return SendError(c, fiberErr.Code, fiberErr.Message)
	}
	return SendError(c, fiber.StatusInternalServerError, "internal server error")
}
