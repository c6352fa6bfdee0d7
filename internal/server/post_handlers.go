package server

import (
	"lumen/internal/models"
	"lumen/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	posts, err := s.feedService.ListFeed(c.UserContext(), actor)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(posts)
}

// GetFeatured handles GET /api/posts/featured
func (s *Server) GetFeatured(c *fiber.Ctx) error {
	if _, err := s.resolveActor(c); err != nil {
		return nil
	}
	posts, err := s.feedService.ListFeatured(c.UserContext())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(posts)
}

// GenerateUploadURL handles POST /api/posts/upload-url
func (s *Server) GenerateUploadURL(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	target, err := s.postService.GenerateUploadURL(c.UserContext(), actor)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(target)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}

	var req struct {
		StorageID string `json:"storage_id"`
		Caption   string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), actor, service.CreatePostInput{
		StorageID: req.StorageID,
		Caption:   req.Caption,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), actor, postID); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	liked, err := s.relationshipService.ToggleLike(c.UserContext(), actor, postID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// ToggleBookmark handles POST /api/posts/:id/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	bookmarked, err := s.relationshipService.ToggleBookmark(c.UserContext(), actor, postID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": bookmarked})
}

// GetBookmarks handles GET /api/bookmarks
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}
	posts, err := s.feedService.ListBookmarkedPosts(c.UserContext(), actor)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(posts)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.resolveActor(c); err != nil {
		return nil
	}
	comments, err := s.postService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor, err := s.resolveActor(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.UserContext(), actor, service.AddCommentInput{
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
