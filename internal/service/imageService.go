package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *imageService) UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// the stored original must be decodable, stickers are loaded from it later
	if _, err := s.processor.Decode(src); err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	image := &entity.Image{
		ID:     id,
		Status: entity.StatusUploaded,
	}

	if err := s.repo.SaveFile(id, entity.FormatOriginal, src); err != nil {
		return "", err
	}
	if err := s.repo.Save(image); err != nil {
		return "", err
	}

	logrus.WithField("image_id", id).Info("Image uploaded")
	return id, nil
}

func (s *imageService) GetImage(_ context.Context, id string) (*entity.Image, error) {
	return s.repo.FindByID(id)
}

func (s *imageService) GetFilePath(_ context.Context, id string, format string) (string, error) {
	if format != entity.FormatOriginal && format != entity.FormatRendered {
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
	if _, err := s.repo.FindByID(id); err != nil {
		return "", err
	}
	reader, err := s.repo.OpenFile(id, format)
	if err != nil {
		return "", err
	}
	reader.Close()
	return s.repo.GetFilePath(id, format), nil
}

func (s *imageService) DeleteImage(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if err := s.history.Clear(ctx, id); err != nil {
		logrus.WithField("image_id", id).Warnf("Failed to clear customization history: %v", err)
	}
	return nil
}

func (s *imageService) AddCustomizations(ctx context.Context, id string, customizations []entity.CustomizationDTO) ([]entity.CustomizationDTO, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		return nil, err
	}
	if err := s.validate(customizations); err != nil {
		return nil, err
	}

	if err := s.history.Append(ctx, id, customizations...); err != nil {
		return nil, err
	}
	return s.history.List(ctx, id)
}

func (s *imageService) GetCustomizations(ctx context.Context, id string) ([]entity.CustomizationDTO, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		return nil, err
	}
	return s.history.List(ctx, id)
}

// ResetCustomizations starts a new editing session on the same image.
func (s *imageService) ResetCustomizations(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}
	return s.history.Clear(ctx, id)
}

func (s *imageService) RenderImage(ctx context.Context, id string) (string, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		return "", err
	}

	customizations, err := s.history.List(ctx, id)
	if err != nil {
		return "", err
	}

	task := entity.RenderTask{
		TaskID:         uuid.New().String(),
		ImageID:        id,
		Customizations: customizations,
	}

	if err := s.repo.UpdateStatus(id, entity.StatusProcessing, nil, nil); err != nil {
		return "", err
	}
	// processing is recorded first: an in-process producer may finish the render
	// before SendMessage returns
	if err := s.producer.SendMessage(ctx, id, task); err != nil {
		enqueueErr := fmt.Errorf("failed to enqueue render task: %w", err)
		if statusErr := s.repo.UpdateStatus(id, entity.StatusFailed, nil, enqueueErr); statusErr != nil {
			logrus.WithField("image_id", id).Errorf("Failed to update status: %v", statusErr)
		}
		return "", enqueueErr
	}

	logrus.WithFields(logrus.Fields{
		"image_id":       id,
		"task_id":        task.TaskID,
		"customizations": len(customizations),
	}).Info("Render task queued")
	return task.TaskID, nil
}

func (s *imageService) Preview(ctx context.Context, file *multipart.FileHeader, customizations []entity.CustomizationDTO) ([]byte, string, error) {
	if err := s.validate(customizations); err != nil {
		return nil, "", err
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	base, err := s.processor.Decode(src)
	if err != nil {
		return nil, "", err
	}

	rendered, err := s.processor.Render(ctx, base, customizations)
	if err != nil {
		return nil, "", err
	}
	return s.processor.Encode(rendered)
}

// validate checks every DTO and that referenced images exist.
func (s *imageService) validate(customizations []entity.CustomizationDTO) error {
	var errs []error
	for i, c := range customizations {
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("customization %d: %w", i, err))
		}
	}
	for _, ref := range entity.ImageRefs(customizations) {
		if _, err := s.repo.FindByID(ref); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", entity.ErrUnresolvedImageRef, ref))
		}
	}
	return errors.Join(errs...)
}
