package filter

import (
	"image"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
)

// AdjustmentFilter applies saturation, brightness and contrast in one pass.
// Keys that were never set fall back to the backend defaults.
type AdjustmentFilter struct {
	accumulator
	backend backend.Backend
}

func NewAdjustmentFilter(b backend.Backend, initial ...entity.Customization) *AdjustmentFilter {
	f := &AdjustmentFilter{
		accumulator: newAccumulator(KindAdjustment),
		backend:     b,
	}
	for _, c := range initial {
		f.Ingest(c)
	}
	return f
}

func (f *AdjustmentFilter) Kind() Kind { return KindAdjustment }

func (f *AdjustmentFilter) Category() entity.Category { return entity.CategoryFilters }

func (f *AdjustmentFilter) Ingest(c entity.Customization) {
	if c.None {
		f.empty = true
	}
	f.store(KindAdjustment, c)
}

func (f *AdjustmentFilter) Render(input image.Image) (image.Image, error) {
	if f.empty {
		return input, nil
	}
	return apply(f.backend, backend.OpColorControls, f.with(entity.KeyImage, input))
}
