package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/service"
	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(service service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidCustomization),
		errors.Is(err, entity.ErrUnresolvedImageRef),
		errors.Is(err, entity.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrRenderFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}
