package filter

import (
	"image"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
)

// StickerFilter composites the last ingested sticker over its input.
//
// Render ignores IsEmpty: stickers are recomposited on every pass, and the
// empty flag is only kept so the type satisfies Filter.
type StickerFilter struct {
	accumulator
	backend backend.Backend
}

func NewStickerFilter(b backend.Backend, initial ...entity.Customization) *StickerFilter {
	f := &StickerFilter{
		accumulator: newAccumulator(KindSticker),
		backend:     b,
	}
	for _, c := range initial {
		f.Ingest(c)
	}
	return f
}

func (f *StickerFilter) Kind() Kind { return KindSticker }

func (f *StickerFilter) Category() entity.Category { return entity.CategoryStickers }

func (f *StickerFilter) Ingest(c entity.Customization) {
	if c.None {
		f.empty = true
	}
	f.store(KindSticker, c)
}

func (f *StickerFilter) Render(input image.Image) (image.Image, error) {
	return apply(f.backend, backend.OpSourceOverCompositing, f.with(entity.KeyBackgroundImage, input))
}
