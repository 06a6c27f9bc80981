package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetPendingQueue returns the moderation queue, oldest decisions owed last.
func (s *Server) GetPendingQueue(c *fiber.Ctx) error {
	posts, err := s.engine.PendingQueue(c.Context(), adminEmail(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// GetApprovedPosts returns every approved post, including ones the
// report counter has hidden from the public feed.
func (s *Server) GetApprovedPosts(c *fiber.Ctx) error {
	posts, err := s.engine.ApprovedList(c.Context(), adminEmail(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// ApprovePost publishes a pending post to the feed.
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	if err := s.engine.Approve(c.Context(), adminEmail(c), c.Params("id")); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post approved",
	})
}

// UnapprovePost pulls a post off the feed and back into the queue.
func (s *Server) UnapprovePost(c *fiber.Ctx) error {
	if err := s.engine.Unapprove(c.Context(), adminEmail(c), c.Params("id")); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post unapproved",
	})
}

// DeletePost removes a post permanently.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.engine.Delete(c.Context(), adminEmail(c), c.Params("id")); err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// GetRecentActions returns the newest moderation audit entries.
func (s *Server) GetRecentActions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	actions, err := s.engine.RecentActions(c.Context(), adminEmail(c), limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"actions": actions,
		"count":   len(actions),
	})
}
