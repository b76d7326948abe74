package database

import (
	"context"
	"io"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/pkg/storage"
)

type ImageRepository interface {
	Save(image *entity.Image) error
	FindByID(id string) (*entity.Image, error)
	Delete(id string) error
	SaveFile(id string, format string, file io.Reader) error
	OpenFile(id string, format string) (io.ReadCloser, error)
	GetFilePath(id string, format string) string
	UpdateStatus(id string, status string, formats map[string]string, renderErr error) error
}

// HistoryRepository keeps the ordered customizations applied to an image.
type HistoryRepository interface {
	Append(ctx context.Context, imageID string, customizations ...entity.CustomizationDTO) error
	List(ctx context.Context, imageID string) ([]entity.CustomizationDTO, error)
	Clear(ctx context.Context, imageID string) error
}

type fileImageRepository struct {
	storage storage.FileStorage
}
