package application

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jagravi04/unimatch-finder/services"
	"github.com/jagravi04/unimatch-finder/utils/response"
)

// ApplicationHandler exposes the submission gateway
type ApplicationHandler struct {
	submissions *services.SubmissionService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(submissions *services.SubmissionService) *ApplicationHandler {
	return &ApplicationHandler{submissions: submissions}
}

// SubmitApplication handles POST /api/v1/applications
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	// JSON only, whatever the Content-Type says
	var req services.ApplicationRequest
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		log.Infow("application rejected", "code", services.CodeMissingFields, "error", err)
		missing := services.NewMissingFieldsError()
		return response.Rejected(c, missing.Status, missing.Code, missing.Details)
	}

	result, err := h.submissions.Submit(c.UserContext(), req)
	if err != nil {
		var subErr *services.SubmissionError
		if errors.As(err, &subErr) {
			return response.Rejected(c, subErr.Status, subErr.Code, subErr.Details)
		}
		return response.Rejected(c, fiber.StatusInternalServerError, services.CodeInternalServerError,
			"An unexpected error occurred. Please try again later.")
	}

	return response.Submitted(c, result.Message, result.ApplicationID)
}

// Preflight answers OPTIONS /api/v1/applications with an empty success
func (h *ApplicationHandler) Preflight(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
