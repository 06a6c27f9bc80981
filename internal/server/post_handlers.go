package server

import (
	"github.com/wan8ting/mystery-meet/internal/models"
	"github.com/wan8ting/mystery-meet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetFeed returns the public feed: approved posts below the report
// threshold, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	posts, err := s.engine.VisibleFeed(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// SubmitPost accepts an anonymous submission. Valid submissions land in
// the pending queue and are not publicly visible until approved.
func (s *Server) SubmitPost(c *fiber.Ctx) error {
	var in validation.Submission
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewMissingFieldError("body"))
	}

	post, err := s.engine.Submit(c.Context(), in)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ReportPost adds one report to a post. Open to anyone; the per-IP rate
// limit on the route is the only throttle.
func (s *Server) ReportPost(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.engine.Report(c.Context(), id); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Report recorded",
	})
}
