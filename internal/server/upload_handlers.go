package server

import (
	"bytes"
	"errors"

	"lumen/internal/models"
	"lumen/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadBlob handles PUT /api/uploads/:storageId for the local blob driver.
func (s *Server) UploadBlob(c *fiber.Ctx) error {
	local, ok := s.blobs.(*storage.LocalStore)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if _, err := s.resolveActor(c); err != nil {
		return nil
	}

	err := local.Put(c.UserContext(), c.Params("storageId"), bytes.NewReader(c.Body()))
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, storage.ErrObjectNotFound), errors.Is(err, storage.ErrInvalidStorageID):
		return respondErr(c, models.NewNotFoundError("Upload", c.Params("storageId")))
	case errors.Is(err, storage.ErrUploadTooLarge):
		return models.RespondWithError(c, fiber.StatusRequestEntityTooLarge,
			models.NewValidationError("Upload exceeds size limit"))
	case errors.Is(err, storage.ErrUnsupportedContent), errors.Is(err, storage.ErrUploadExpired):
		return respondErr(c, models.NewValidationError(err.Error()))
	default:
		return respondErr(c, models.NewInternalError(err))
	}
}

// ServeMedia handles GET /media/:storageId for the local blob driver.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	local, ok := s.blobs.(*storage.LocalStore)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	path, err := local.FilePath(c.Params("storageId"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
