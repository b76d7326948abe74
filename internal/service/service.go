package service

import (
	"context"
	"mime/multipart"

	"github.com/ds124wfegd/media-editor/internal/database"
	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/pkg/kafka"
	"github.com/ds124wfegd/media-editor/internal/pkg/processor"
)

type ImageService interface {
	UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error)
	GetImage(ctx context.Context, id string) (*entity.Image, error)
	GetFilePath(ctx context.Context, id string, format string) (string, error)
	DeleteImage(ctx context.Context, id string) error

	AddCustomizations(ctx context.Context, id string, customizations []entity.CustomizationDTO) ([]entity.CustomizationDTO, error)
	GetCustomizations(ctx context.Context, id string) ([]entity.CustomizationDTO, error)
	ResetCustomizations(ctx context.Context, id string) error

	// RenderImage queues a render of the image with its customization history.
	RenderImage(ctx context.Context, id string) (string, error)
	// Preview renders synchronously and returns the encoded image and its content type.
	Preview(ctx context.Context, file *multipart.FileHeader, customizations []entity.CustomizationDTO) ([]byte, string, error)
}

type imageService struct {
	repo      database.ImageRepository
	history   database.HistoryRepository
	producer  kafka.Producer
	processor processor.ImageProcessor
}

func NewImageService(repo database.ImageRepository, history database.HistoryRepository, producer kafka.Producer, processor processor.ImageProcessor) ImageService {
	return &imageService{
		repo:      repo,
		history:   history,
		producer:  producer,
		processor: processor,
	}
}
