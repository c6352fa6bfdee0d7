package server

import "github.com/gofiber/fiber/v2"

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	views, err := s.notificationService.ListNotifications(c.UserContext(), actor)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(views)
}
