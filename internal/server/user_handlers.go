package server

import (
	"lumen/internal/models"
	"lumen/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	return c.JSON(actor)
}

// UpdateMe handles PUT /api/users/me
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}

	// Bio is a pointer so an omitted field leaves the stored bio alone.
	var req struct {
		Fullname string  `json:"fullname"`
		Bio      *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), actor, service.UpdateProfileInput{
		Fullname: req.Fullname,
		Bio:      req.Bio,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// GetUserByExternalID handles GET /api/users/external/:externalId
func (s *Server) GetUserByExternalID(c *fiber.Ctx) error {
	if _, err := s.resolveActor(c); err != nil {
		return nil
	}
	user, err := s.userService.GetByExternalID(c.UserContext(), c.Params("externalId"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.resolveActor(c); err != nil {
		return nil
	}
	user, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	posts, err := s.feedService.ListPostsByUser(c.UserContext(), actor, &userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(posts)
}

// GetMyPosts handles GET /api/users/me/posts
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	posts, err := s.feedService.ListPostsByUser(c.UserContext(), actor, nil)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(posts)
}

// IsFollowing handles GET /api/users/:id/following
func (s *Server) IsFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	following, err := s.relationshipService.IsFollowing(c.UserContext(), actor, userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	following, err := s.relationshipService.ToggleFollow(c.UserContext(), actor, userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}
