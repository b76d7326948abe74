package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/database"
	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/ds124wfegd/media-editor/internal/filter"
	"github.com/ds124wfegd/media-editor/internal/pkg/codec"
	"github.com/ds124wfegd/media-editor/internal/session"
	"github.com/sirupsen/logrus"
)

type ImageProcessor interface {
	// Process renders the task's customizations onto the stored original and
	// records the outcome in the image metadata.
	Process(ctx context.Context, task entity.RenderTask) error
	// Render runs the customizations over base without touching metadata.
	Render(ctx context.Context, base image.Image, customizations []entity.CustomizationDTO) (image.Image, error)
	// Encode writes img in the configured output format.
	Encode(img image.Image) ([]byte, string, error)
	// Decode reads an image, rejecting ones above the configured pixel limit.
	Decode(r io.Reader) (image.Image, error)
	HandleMessage(ctx context.Context, value []byte) error
}

type Options struct {
	Order        []filter.Kind
	OutputFormat string
	JPEGQuality  int
	MaxPixels    int
}

type imageProcessor struct {
	repo    database.ImageRepository
	backend backend.Backend
	opts    Options
}

func NewImageProcessor(repo database.ImageRepository, b backend.Backend, opts Options) ImageProcessor {
	if len(opts.Order) == 0 {
		opts.Order = session.DefaultOrder()
	}
	return &imageProcessor{repo: repo, backend: b, opts: opts}
}

func (p *imageProcessor) HandleMessage(ctx context.Context, value []byte) error {
	var task entity.RenderTask
	if err := json.Unmarshal(value, &task); err != nil {
		return fmt.Errorf("failed to parse task: %w", err)
	}
	return p.Process(ctx, task)
}

func (p *imageProcessor) Process(ctx context.Context, task entity.RenderTask) error {
	log := logrus.WithFields(logrus.Fields{
		"image_id": task.ImageID,
		"task_id":  task.TaskID,
	})
	log.Info("Processing render task")
	start := time.Now()

	base, err := p.loadImage(task.ImageID)
	if err != nil {
		return p.fail(task.ImageID, fmt.Errorf("failed to load image: %w", err))
	}

	rendered, err := p.Render(ctx, base, task.Customizations)
	if err != nil {
		return p.fail(task.ImageID, err)
	}

	data, _, err := p.Encode(rendered)
	if err != nil {
		return p.fail(task.ImageID, fmt.Errorf("failed to encode image: %w", err))
	}
	if err := p.repo.SaveFile(task.ImageID, entity.FormatRendered, bytes.NewReader(data)); err != nil {
		return p.fail(task.ImageID, fmt.Errorf("failed to save image: %w", err))
	}

	formats := map[string]string{entity.FormatRendered: p.repo.GetFilePath(task.ImageID, entity.FormatRendered)}
	if err := p.repo.UpdateStatus(task.ImageID, entity.StatusCompleted, formats, nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.WithField("duration", time.Since(start)).Info("Completed render task")
	return nil
}

func (p *imageProcessor) Render(ctx context.Context, base image.Image, dtos []entity.CustomizationDTO) (image.Image, error) {
	resolver := p.resolver()
	customizations, err := entity.ToCustomizations(dtos, resolver)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := session.New(p.backend, base, p.opts.Order, customizations...)
	if err != nil {
		return nil, err
	}
	return s.Render()
}

func (p *imageProcessor) Encode(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, img, p.opts.OutputFormat, p.opts.JPEGQuality); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), codec.ContentType(p.opts.OutputFormat), nil
}

// resolver loads referenced images from storage, once per reference.
func (p *imageProcessor) resolver() entity.ImageResolver {
	cache := make(map[string]image.Image)
	return func(ref string) (image.Image, error) {
		if img, ok := cache[ref]; ok {
			return img, nil
		}
		img, err := p.loadImage(ref)
		if err != nil {
			return nil, err
		}
		cache[ref] = img
		return img, nil
	}
}

func (p *imageProcessor) loadImage(id string) (image.Image, error) {
	reader, err := p.repo.OpenFile(id, entity.FormatOriginal)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return p.Decode(reader)
}

func (p *imageProcessor) Decode(r io.Reader) (image.Image, error) {
	img, _, err := codec.DecodeLimit(r, p.opts.MaxPixels)
	return img, err
}

// fail records the error and leaves the last rendered file in place.
func (p *imageProcessor) fail(imageID string, cause error) error {
	logrus.WithField("image_id", imageID).Errorf("Render failed: %v", cause)
	if err := p.repo.UpdateStatus(imageID, entity.StatusFailed, nil, cause); err != nil {
		logrus.WithField("image_id", imageID).Errorf("Failed to update status: %v", err)
	}
	return cause
}
