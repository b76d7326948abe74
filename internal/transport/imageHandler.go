package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/pkg/codec"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

func (h *ImageHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No image file provided"})
		return
	}

	if !codec.IsSupportedExt(file.Filename) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid image type. Supported: jpg, jpeg, png, gif, bmp, tiff, webp"})
		return
	}

	id := uuid.New().String()

	imageID, err := h.service.UploadImage(c.Request.Context(), id, file)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.UploadResponse{
		ID:     imageID,
		Status: entity.StatusUploaded,
	})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	id := c.Param("id")

	image, err := h.service.GetImage(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ImageResponse{
		ID:      image.ID,
		Status:  image.Status,
		Formats: image.Formats,
		Error:   image.Error,
	})
}

func (h *ImageHandler) GetImageFile(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", entity.FormatRendered)

	path, err := h.service.GetFilePath(c.Request.Context(), id, format)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.File(path)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (h *ImageHandler) AddCustomizations(c *gin.Context) {
	id := c.Param("id")

	var req entity.CustomizationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	list, err := h.service.AddCustomizations(c.Request.Context(), id, req.Customizations)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.CustomizationsResponse{ID: id, Customizations: list})
}

func (h *ImageHandler) GetCustomizations(c *gin.Context) {
	id := c.Param("id")

	list, err := h.service.GetCustomizations(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if list == nil {
		list = []entity.CustomizationDTO{}
	}

	c.JSON(http.StatusOK, entity.CustomizationsResponse{ID: id, Customizations: list})
}

func (h *ImageHandler) ResetCustomizations(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.ResetCustomizations(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customizations reset"})
}

func (h *ImageHandler) RenderImage(c *gin.Context) {
	id := c.Param("id")

	taskID, err := h.service.RenderImage(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, entity.RenderResponse{
		ID:     id,
		TaskID: taskID,
		Status: entity.StatusProcessing,
	})
}

// Preview renders an uploaded image with the customizations from the
// "customizations" form field and writes the result back directly.
func (h *ImageHandler) Preview(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No image file provided"})
		return
	}

	req := entity.CustomizationsRequest{Customizations: []entity.CustomizationDTO{}}
	if raw := c.PostForm("customizations"); raw != "" {
		if err := parseCustomizations(raw, &req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
			return
		}
	}

	data, contentType, err := h.service.Preview(c.Request.Context(), file, req.Customizations)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// parseCustomizations accepts either a bare array or a {"customizations": [...]} object.
func parseCustomizations(raw string, req *entity.CustomizationsRequest) error {
	raw = strings.TrimSpace(raw)
	var err error
	if strings.HasPrefix(raw, "[") {
		err = json.Unmarshal([]byte(raw), &req.Customizations)
	} else {
		err = json.Unmarshal([]byte(raw), req)
	}
	if err != nil {
		return fmt.Errorf("malformed customizations: %w", err)
	}
	return binding.Validator.ValidateStruct(req)
}
