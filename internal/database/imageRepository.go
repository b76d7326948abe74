package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/pkg/storage"
)

var metadataMu sync.Mutex

func NewImageRepository(storage storage.FileStorage) ImageRepository {
	return &fileImageRepository{storage: storage}
}

func (r *fileImageRepository) Save(image *entity.Image) error {
	imagePath := r.getImageMetadataPath(image.ID)

	image.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(image)
	if err != nil {
		return err
	}

	return r.storage.Save(imagePath, bytes.NewReader(data))
}

func (r *fileImageRepository) FindByID(id string) (*entity.Image, error) {
	imagePath := r.getImageMetadataPath(id)

	reader, err := r.storage.Get(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entity.ErrImageNotFound, id)
		}
		return nil, err
	}
	defer reader.Close()

	var image entity.Image
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&image); err != nil {
		return nil, err
	}

	return &image, nil
}

// UpdateStatus merges formats into the stored ones so a failed render keeps the
// previously rendered file reachable.
func (r *fileImageRepository) UpdateStatus(id string, status string, formats map[string]string, renderErr error) error {
	metadataMu.Lock()
	defer metadataMu.Unlock()

	image, err := r.FindByID(id)
	if err != nil {
		return err
	}

	image.Status = status
	image.Error = ""
	if renderErr != nil {
		image.Error = renderErr.Error()
	}
	if len(formats) > 0 && image.Formats == nil {
		image.Formats = make(map[string]string, len(formats))
	}
	for k, v := range formats {
		image.Formats[k] = v
	}

	return r.Save(image)
}

func (r *fileImageRepository) Delete(id string) error {
	metadataPath := r.getImageMetadataPath(id)
	if err := r.storage.Delete(metadataPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", entity.ErrImageNotFound, id)
		}
		return err
	}

	processedDir := filepath.Join("processed", id)
	if err := r.storage.Delete(processedDir); err != nil && !os.IsNotExist(err) {
		return err
	}

	originalPath := filepath.Join("original", id)
	if err := r.storage.Delete(originalPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (r *fileImageRepository) SaveFile(id string, format string, file io.Reader) error {
	return r.storage.Save(r.relativePath(id, format), file)
}

func (r *fileImageRepository) OpenFile(id string, format string) (io.ReadCloser, error) {
	reader, err := r.storage.Get(r.relativePath(id, format))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", entity.ErrImageNotFound, id, format)
		}
		return nil, err
	}
	return reader, nil
}

func (r *fileImageRepository) GetFilePath(id string, format string) string {
	return r.storage.Path(r.relativePath(id, format))
}

func (r *fileImageRepository) relativePath(id string, format string) string {
	if format == entity.FormatOriginal {
		return filepath.Join("original", id)
	}
	return filepath.Join("processed", id, format)
}

func (r *fileImageRepository) getImageMetadataPath(id string) string {
	return filepath.Join("metadata", id+".json")
}
