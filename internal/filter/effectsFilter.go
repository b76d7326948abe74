package filter

import (
	"image"
	"slices"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
)

// EffectsFilter runs one named backend effect. It keeps a single name instead of
// a parameter map.
type EffectsFilter struct {
	backend    backend.Backend
	effectName string
	hasEffect  bool
	empty      bool
}

func NewEffectsFilter(b backend.Backend, initial ...entity.Customization) *EffectsFilter {
	f := &EffectsFilter{backend: b}
	for _, c := range initial {
		f.Ingest(c)
	}
	return f
}

func (f *EffectsFilter) Kind() Kind { return KindEffects }

func (f *EffectsFilter) Category() entity.Category { return entity.CategoryFilters }

func (f *EffectsFilter) IsEmpty() bool { return f.empty }

func (f *EffectsFilter) SetEmpty(empty bool) { f.empty = empty }

// EffectName returns the stored effect and whether one is set.
func (f *EffectsFilter) EffectName() (string, bool) {
	return f.effectName, f.hasEffect
}

func (f *EffectsFilter) Ingest(c entity.Customization) {
	if c.None {
		f.empty = true
	}
	if !slices.Contains(requiredKeys[KindEffects], c.Key) {
		if !c.None {
			logIgnored(KindEffects, c)
		}
		return
	}

	// a non-string payload unsets the effect
	f.effectName, f.hasEffect = c.Value.Text()
}

func (f *EffectsFilter) Render(input image.Image) (image.Image, error) {
	if f.empty || !f.hasEffect {
		return input, nil
	}
	return apply(f.backend, f.effectName, backend.Parameters{
		entity.KeyImage: entity.ImageValue(input),
	})
}
