package filter

import (
	"fmt"
	"image"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/sirupsen/logrus"
)

// RenderAll folds Render over base in the given order, each stage feeding the
// next. The first failing stage aborts the fold and no partial image is returned.
func RenderAll(filters []Filter, base image.Image) (image.Image, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrRenderFailed, entity.ErrMissingInput)
	}

	img := base
	for i, f := range filters {
		out, err := f.Render(img)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %d (%s): %w", entity.ErrRenderFailed, i, f.Kind(), err)
		}
		if out == nil {
			return nil, fmt.Errorf("%w: stage %d (%s) produced no image", entity.ErrRenderFailed, i, f.Kind())
		}

		logrus.WithFields(logrus.Fields{
			"stage":  i,
			"filter": f.Kind().String(),
			"empty":  f.IsEmpty(),
		}).Debug("filter rendered")
		img = out
	}
	return img, nil
}
