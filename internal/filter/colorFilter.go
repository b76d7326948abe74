package filter

import (
	"image"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
)

// ColorFilter tints the image with a monochrome color, or applies sepia when the
// sepia variant was the last color choice.
type ColorFilter struct {
	accumulator
	backend backend.Backend
	sepia   bool
}

func NewColorFilter(b backend.Backend, initial ...entity.Customization) *ColorFilter {
	f := &ColorFilter{
		accumulator: newAccumulator(KindColor),
		backend:     b,
	}
	for _, c := range initial {
		f.Ingest(c)
	}
	return f
}

func (f *ColorFilter) Kind() Kind { return KindColor }

func (f *ColorFilter) Category() entity.Category { return entity.CategoryFilters }

func (f *ColorFilter) IsSepia() bool { return f.sepia }

func (f *ColorFilter) Ingest(c entity.Customization) {
	if c.None {
		f.empty = true
	}

	// sepia carries no color of its own
	if c.Sepia {
		f.sepia = true
		delete(f.values, entity.KeyColor)
		return
	}
	if c.Key == entity.KeyColor {
		f.sepia = false
	}

	f.store(KindColor, c)
}

func (f *ColorFilter) Render(input image.Image) (image.Image, error) {
	if f.empty {
		return input, nil
	}

	op := backend.OpColorMonochrome
	if f.sepia {
		op = backend.OpSepiaTone
	}
	return apply(f.backend, op, f.with(entity.KeyImage, input))
}
