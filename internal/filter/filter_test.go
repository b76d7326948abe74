package filter

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCall struct {
	op     string
	params backend.Parameters
}

// recordingBackend returns a fresh image for every call so that identity
// pass-through can be told apart from a backend round trip.
type recordingBackend struct {
	calls []backendCall
	err   error
}

func (r *recordingBackend) Apply(op string, params backend.Parameters) (image.Image, error) {
	r.calls = append(r.calls, backendCall{op: op, params: params.Clone()})
	if r.err != nil {
		return nil, r.err
	}
	return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (r *recordingBackend) lastCall(t *testing.T) backendCall {
	t.Helper()
	require.NotEmpty(t, r.calls)
	return r.calls[len(r.calls)-1]
}

func TestEmptyFilterPassesInputThrough(t *testing.T) {
	input := newSolidImage(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	tests := []struct {
		name    string
		kind    Kind
		initial []entity.Customization
	}{
		{
			name:    "color",
			kind:    KindColor,
			initial: []entity.Customization{entity.Color(color.White), entity.None(entity.CategoryFilters)},
		},
		{
			name:    "effects",
			kind:    KindEffects,
			initial: []entity.Customization{entity.Effect("Invert"), entity.None(entity.CategoryFilters)},
		},
		{
			name:    "adjustment",
			kind:    KindAdjustment,
			initial: []entity.Customization{entity.Brightness(0.5), entity.None(entity.CategoryAdjustments)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := &recordingBackend{}
			f, err := New(tt.kind, rb, tt.initial...)
			require.NoError(t, err)
			require.True(t, f.IsEmpty())

			out, err := f.Render(input)
			require.NoError(t, err)
			assert.Same(t, input, out)
			assert.Empty(t, rb.calls)
		})
	}
}

func TestStickerFilterIgnoresEmpty(t *testing.T) {
	input := newSolidImage(4, 4, color.RGBA{B: 255, A: 255})
	sticker := newSolidImage(2, 2, color.RGBA{R: 255, A: 255})

	t.Run("none without sticker still composites", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewStickerFilter(rb, entity.None(entity.CategoryStickers))
		require.True(t, f.IsEmpty())

		out, err := f.Render(input)
		require.NoError(t, err)
		assert.NotSame(t, input, out)

		call := rb.lastCall(t)
		assert.Equal(t, backend.OpSourceOverCompositing, call.op)
		bg, err := call.params.Image(entity.KeyBackgroundImage)
		require.NoError(t, err)
		assert.Same(t, input, bg)
		_, hasSticker := call.params[entity.KeyImage]
		assert.False(t, hasSticker)
	})

	t.Run("none after sticker keeps compositing the sticker", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewStickerFilter(rb, entity.Sticker(sticker))
		f.Ingest(entity.None(entity.CategoryStickers))

		_, err := f.Render(input)
		require.NoError(t, err)

		fg, err := rb.lastCall(t).params.Image(entity.KeyImage)
		require.NoError(t, err)
		assert.Same(t, sticker, fg)
	})

	t.Run("real backend with no sticker returns background pixels", func(t *testing.T) {
		f := NewStickerFilter(backend.NewImagingBackend(), entity.None(entity.CategoryStickers))
		out, err := f.Render(input)
		require.NoError(t, err)
		assert.NotSame(t, input, out)
		assert.Equal(t, color.NRGBA{B: 255, A: 255}, color.NRGBAModel.Convert(out.At(1, 1)))
	})
}

func TestIngestIgnoresForeignKeys(t *testing.T) {
	foreign := []entity.Customization{
		entity.Brightness(0.3),
		{Category: entity.CategoryFilters, Key: "inputRadius", Value: entity.FloatValue(4)},
		entity.Effect("Blur"),
	}

	t.Run("color", func(t *testing.T) {
		f := NewColorFilter(&recordingBackend{}, entity.Intensity(0.5))
		before := f.Parameters()
		for _, c := range foreign {
			f.Ingest(c)
		}
		assert.Equal(t, before, f.Parameters())
		assert.False(t, f.IsEmpty())
	})

	t.Run("adjustment", func(t *testing.T) {
		f := NewAdjustmentFilter(&recordingBackend{}, entity.Contrast(1.2))
		before := f.Parameters()
		f.Ingest(entity.Color(color.Black))
		f.Ingest(entity.Intensity(0.1))
		f.Ingest(entity.Effect("Blur"))
		assert.Equal(t, before, f.Parameters())
	})

	t.Run("sticker", func(t *testing.T) {
		f := NewStickerFilter(&recordingBackend{})
		for _, c := range foreign {
			f.Ingest(c)
		}
		assert.Empty(t, f.Parameters())
	})

	t.Run("effects", func(t *testing.T) {
		f := NewEffectsFilter(&recordingBackend{}, entity.Effect("Mono"))
		f.Ingest(entity.Brightness(0.3))
		f.Ingest(entity.Color(color.White))
		name, ok := f.EffectName()
		assert.True(t, ok)
		assert.Equal(t, "Mono", name)
	})
}

func TestLastWriteWins(t *testing.T) {
	input := newSolidImage(2, 2, color.RGBA{A: 255})
	rb := &recordingBackend{}

	f := NewAdjustmentFilter(rb, entity.Brightness(0.1), entity.Saturation(0.5))
	f.Ingest(entity.Brightness(0.4))

	_, err := f.Render(input)
	require.NoError(t, err)

	call := rb.lastCall(t)
	assert.Equal(t, backend.OpColorControls, call.op)
	brightness, err := call.params.Float(entity.KeyBrightness, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.4, brightness)
	saturation, err := call.params.Float(entity.KeySaturation, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, saturation)
	img, err := call.params.Image(entity.KeyImage)
	require.NoError(t, err)
	assert.Same(t, input, img)
}

func TestColorFilterSepiaOrdering(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	input := newSolidImage(2, 2, color.RGBA{R: 90, G: 90, B: 90, A: 255})

	t.Run("sepia then plain color", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewColorFilter(rb, entity.Sepia(), entity.Color(red))

		assert.False(t, f.IsSepia())
		c, ok := f.Parameters()[entity.KeyColor].Color()
		require.True(t, ok)
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)

		_, err := f.Render(input)
		require.NoError(t, err)
		assert.Equal(t, backend.OpColorMonochrome, rb.lastCall(t).op)
	})

	t.Run("plain color then sepia", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewColorFilter(rb, entity.Color(red), entity.Intensity(0.7), entity.Sepia())

		assert.True(t, f.IsSepia())
		_, hasColor := f.Parameters()[entity.KeyColor]
		assert.False(t, hasColor)

		_, err := f.Render(input)
		require.NoError(t, err)
		call := rb.lastCall(t)
		assert.Equal(t, backend.OpSepiaTone, call.op)
		_, hasColor = call.params[entity.KeyColor]
		assert.False(t, hasColor)
		intensity, err := call.params.Float(entity.KeyIntensity, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.7, intensity)
	})

	t.Run("intensity does not clear sepia", func(t *testing.T) {
		f := NewColorFilter(&recordingBackend{}, entity.Sepia(), entity.Intensity(0.2))
		assert.True(t, f.IsSepia())
	})

	t.Run("only intensity set passes through to backend", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewColorFilter(rb, entity.Intensity(0.3))
		_, err := f.Render(input)
		require.NoError(t, err)
		call := rb.lastCall(t)
		assert.Len(t, call.params, 2)
	})
}

func TestEmptyIsSticky(t *testing.T) {
	f := NewColorFilter(&recordingBackend{}, entity.None(entity.CategoryFilters))
	f.Ingest(entity.Color(color.White))
	f.Ingest(entity.Sepia())
	assert.True(t, f.IsEmpty())

	f.SetEmpty(false)
	assert.False(t, f.IsEmpty())
}

func TestEffectsFilter(t *testing.T) {
	input := newSolidImage(3, 3, color.RGBA{R: 40, G: 80, B: 120, A: 255})

	t.Run("no effect name is identity", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewEffectsFilter(rb)
		require.False(t, f.IsEmpty())

		out, err := f.Render(input)
		require.NoError(t, err)
		assert.Same(t, input, out)
		assert.Empty(t, rb.calls)
	})

	t.Run("non string value unsets effect", func(t *testing.T) {
		f := NewEffectsFilter(&recordingBackend{}, entity.Effect("Invert"))
		f.Ingest(entity.Customization{
			Category: entity.CategoryFilters,
			Key:      entity.KeyEffectName,
			Value:    entity.FloatValue(1),
		})
		_, ok := f.EffectName()
		assert.False(t, ok)

		out, err := f.Render(input)
		require.NoError(t, err)
		assert.Same(t, input, out)
	})

	t.Run("named effect receives only the input image", func(t *testing.T) {
		rb := &recordingBackend{}
		f := NewEffectsFilter(rb, entity.Effect("Blur"), entity.Effect("Invert"))

		_, err := f.Render(input)
		require.NoError(t, err)
		call := rb.lastCall(t)
		assert.Equal(t, "Invert", call.op)
		assert.Len(t, call.params, 1)
	})

	t.Run("unknown effect fails", func(t *testing.T) {
		f := NewEffectsFilter(backend.NewImagingBackend(), entity.Effect("NoSuchEffect"))
		out, err := f.Render(input)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, entity.ErrUnknownOperation)
	})
}

func TestCategoryAndKind(t *testing.T) {
	b := &recordingBackend{}
	tests := []struct {
		kind     Kind
		category entity.Category
	}{
		{KindColor, entity.CategoryFilters},
		{KindSticker, entity.CategoryStickers},
		{KindEffects, entity.CategoryFilters},
		{KindAdjustment, entity.CategoryFilters},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f, err := New(tt.kind, b)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, f.Kind())
			assert.Equal(t, tt.category, f.Category())

			parsed, err := ParseKind(tt.kind.String())
			require.NoError(t, err)
			assert.Equal(t, tt.kind, parsed)
		})
	}

	_, err := New(Kind(42), b)
	assert.Error(t, err)
	_, err = ParseKind("lens-flare")
	assert.Error(t, err)

	kinds, err := ParseKinds([]string{"Sticker", " color "})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindSticker, KindColor}, kinds)
	_, err = ParseKinds([]string{"color", "lens-flare"})
	assert.Error(t, err)
}

func TestRenderAll(t *testing.T) {
	b := backend.NewImagingBackend()
	base := newSolidImage(8, 8, color.RGBA{R: 120, G: 90, B: 60, A: 255})

	t.Run("empty color filter is skipped in the middle", func(t *testing.T) {
		filters := []Filter{
			NewAdjustmentFilter(b, entity.Brightness(0.2)),
			NewColorFilter(b, entity.Color(color.White), entity.None(entity.CategoryFilters)),
			NewEffectsFilter(b, entity.Effect("Sepia")),
		}

		got, err := RenderAll(filters, base)
		require.NoError(t, err)

		adjusted, err := b.Apply(backend.OpColorControls, backend.Parameters{
			entity.KeyImage:      entity.ImageValue(base),
			entity.KeyBrightness: entity.FloatValue(0.2),
		})
		require.NoError(t, err)
		want, err := b.Apply("Sepia", backend.Parameters{entity.KeyImage: entity.ImageValue(adjusted)})
		require.NoError(t, err)

		assert.Equal(t, want, got)
	})

	t.Run("no filters returns base", func(t *testing.T) {
		got, err := RenderAll(nil, base)
		require.NoError(t, err)
		assert.Same(t, base, got)
	})

	t.Run("nil base fails", func(t *testing.T) {
		_, err := RenderAll(nil, nil)
		assert.ErrorIs(t, err, entity.ErrMissingInput)
	})

	t.Run("failing stage short-circuits", func(t *testing.T) {
		after := &recordingBackend{}
		filters := []Filter{
			NewAdjustmentFilter(b, entity.Contrast(1.5)),
			NewEffectsFilter(b, entity.Effect("Unknown")),
			NewAdjustmentFilter(after, entity.Brightness(0.1)),
		}

		got, err := RenderAll(filters, base)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, entity.ErrRenderFailed)
		assert.ErrorIs(t, err, entity.ErrUnknownOperation)
		assert.Contains(t, err.Error(), "stage 1 (effects)")
		assert.Empty(t, after.calls)
	})

	t.Run("backend error is propagated", func(t *testing.T) {
		boom := errors.New("boom")
		filters := []Filter{NewAdjustmentFilter(&recordingBackend{err: boom})}

		_, err := RenderAll(filters, base)
		assert.ErrorIs(t, err, boom)
	})
}

func newSolidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		c    entity.Customization
		want bool
	}{
		{"none is relevant everywhere", KindSticker, entity.None(entity.CategoryStickers), true},
		{"sepia for color", KindColor, entity.Sepia(), true},
		{"sepia not for effects", KindEffects, entity.Sepia(), false},
		{"effect name for effects", KindEffects, entity.Effect("Blur"), true},
		{"effect name not for color", KindColor, entity.Effect("Blur"), false},
		{"intensity for color", KindColor, entity.Intensity(0.4), true},
		{"brightness for adjustment", KindAdjustment, entity.Brightness(0.4), true},
		{"brightness not for sticker", KindSticker, entity.Brightness(0.4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.kind, tt.c))
		})
	}

	keys := RequiredKeys(KindAdjustment)
	keys[0] = "mutated"
	assert.Equal(t, entity.KeySaturation, RequiredKeys(KindAdjustment)[0])
}
