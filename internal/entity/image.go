package entity

import "time"

const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	FormatOriginal = "original"
	FormatRendered = "rendered"
)

type Image struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Formats   map[string]string `json:"formats,omitempty"`
	Error     string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type RenderTask struct {
	TaskID         string             `json:"task_id"`
	ImageID        string             `json:"image_id"`
	Customizations []CustomizationDTO `json:"customizations"`
}

type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ImageResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Formats map[string]string `json:"formats,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type RenderResponse struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type CustomizationsRequest struct {
	Customizations []CustomizationDTO `json:"customizations" binding:"required,dive"`
}

type CustomizationsResponse struct {
	ID             string             `json:"id"`
	Customizations []CustomizationDTO `json:"customizations"`
}
