package backend

import (
	"image"
	"image/color"
	"testing"

	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyErrors(t *testing.T) {
	b := NewImagingBackend()
	src := newSolidImage(4, 4, color.RGBA{R: 100, G: 150, B: 200, A: 255})

	tests := []struct {
		name    string
		op      string
		params  Parameters
		wantErr error
	}{
		{
			name:    "unknown operation",
			op:      "NoSuchEffect",
			params:  Parameters{entity.KeyImage: entity.ImageValue(src)},
			wantErr: entity.ErrUnknownOperation,
		},
		{
			name:    "missing input image",
			op:      OpColorControls,
			params:  Parameters{entity.KeyBrightness: entity.FloatValue(0.1)},
			wantErr: entity.ErrMissingInput,
		},
		{
			name: "float parameter with color value",
			op:   OpColorControls,
			params: Parameters{
				entity.KeyImage:      entity.ImageValue(src),
				entity.KeyBrightness: entity.ColorValue(color.White),
			},
			wantErr: entity.ErrInvalidParameter,
		},
		{
			name: "color parameter with float value",
			op:   OpColorMonochrome,
			params: Parameters{
				entity.KeyImage: entity.ImageValue(src),
				entity.KeyColor: entity.FloatValue(1),
			},
			wantErr: entity.ErrInvalidParameter,
		},
		{
			name:    "compositing without background",
			op:      OpSourceOverCompositing,
			params:  Parameters{entity.KeyImage: entity.ImageValue(src)},
			wantErr: entity.ErrMissingInput,
		},
		{
			name:    "effect without input",
			op:      "Invert",
			params:  Parameters{},
			wantErr: entity.ErrMissingInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := b.Apply(tt.op, tt.params)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestColorMonochrome(t *testing.T) {
	b := NewImagingBackend()
	src := newSolidImage(3, 3, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	t.Run("zero intensity keeps pixels", func(t *testing.T) {
		out, err := b.Apply(OpColorMonochrome, Parameters{
			entity.KeyImage:     entity.ImageValue(src),
			entity.KeyColor:     entity.ColorValue(color.RGBA{R: 255, A: 255}),
			entity.KeyIntensity: entity.FloatValue(0),
		})
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, pixelAt(out, 1, 1))
	})

	t.Run("full intensity red tint removes green and blue", func(t *testing.T) {
		out, err := b.Apply(OpColorMonochrome, Parameters{
			entity.KeyImage:     entity.ImageValue(src),
			entity.KeyColor:     entity.ColorValue(color.RGBA{R: 255, A: 255}),
			entity.KeyIntensity: entity.FloatValue(1),
		})
		require.NoError(t, err)
		px := pixelAt(out, 0, 0)
		assert.Greater(t, px.R, uint8(0))
		assert.Equal(t, uint8(0), px.G)
		assert.Equal(t, uint8(0), px.B)
	})

	t.Run("missing color uses default tint", func(t *testing.T) {
		out, err := b.Apply(OpColorMonochrome, Parameters{
			entity.KeyImage:     entity.ImageValue(src),
			entity.KeyIntensity: entity.FloatValue(1),
		})
		require.NoError(t, err)
		px := pixelAt(out, 0, 0)
		assert.True(t, px.R > px.G && px.G > px.B)
	})
}

func TestSepiaTone(t *testing.T) {
	b := NewImagingBackend()
	src := newSolidImage(2, 2, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	out, err := b.Apply(OpSepiaTone, Parameters{entity.KeyImage: entity.ImageValue(src)})
	require.NoError(t, err)

	px := pixelAt(out, 0, 0)
	assert.True(t, px.R > px.G && px.G > px.B, "sepia warms grey: %v", px)
	assert.Equal(t, uint8(255), px.A)
}

func TestColorControls(t *testing.T) {
	b := NewImagingBackend()
	src := newSolidImage(4, 4, color.RGBA{R: 100, G: 120, B: 140, A: 255})

	t.Run("defaults are identity", func(t *testing.T) {
		out, err := b.Apply(OpColorControls, Parameters{entity.KeyImage: entity.ImageValue(src)})
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{R: 100, G: 120, B: 140, A: 255}, pixelAt(out, 2, 2))
	})

	t.Run("positive brightness lightens", func(t *testing.T) {
		out, err := b.Apply(OpColorControls, Parameters{
			entity.KeyImage:      entity.ImageValue(src),
			entity.KeyBrightness: entity.FloatValue(0.2),
		})
		require.NoError(t, err)
		px := pixelAt(out, 0, 0)
		assert.Greater(t, px.R, uint8(100))
		assert.Greater(t, px.B, uint8(140))
	})

	t.Run("zero saturation is grey", func(t *testing.T) {
		out, err := b.Apply(OpColorControls, Parameters{
			entity.KeyImage:      entity.ImageValue(src),
			entity.KeySaturation: entity.FloatValue(0),
		})
		require.NoError(t, err)
		px := pixelAt(out, 0, 0)
		assert.InDelta(t, int(px.R), int(px.G), 1)
		assert.InDelta(t, int(px.G), int(px.B), 1)
	})
}

func TestSourceOverCompositing(t *testing.T) {
	b := NewImagingBackend()
	background := newSolidImage(10, 10, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	t.Run("without foreground copies background", func(t *testing.T) {
		out, err := b.Apply(OpSourceOverCompositing, Parameters{
			entity.KeyBackgroundImage: entity.ImageValue(background),
		})
		require.NoError(t, err)
		assert.NotSame(t, background, out)
		assert.Equal(t, color.NRGBA{B: 255, A: 255}, pixelAt(out, 5, 5))
	})

	t.Run("opaque sticker covers its rectangle", func(t *testing.T) {
		sticker := newSolidImage(3, 3, color.RGBA{R: 255, A: 255})
		out, err := b.Apply(OpSourceOverCompositing, Parameters{
			entity.KeyBackgroundImage: entity.ImageValue(background),
			entity.KeyImage:           entity.ImageValue(sticker),
		})
		require.NoError(t, err)
		assert.Equal(t, 10, out.Bounds().Dx())
		assert.Equal(t, color.NRGBA{R: 255, A: 255}, pixelAt(out, 1, 1))
		assert.Equal(t, color.NRGBA{B: 255, A: 255}, pixelAt(out, 8, 8))
	})

	t.Run("transparent sticker leaves background", func(t *testing.T) {
		sticker := image.NewNRGBA(image.Rect(0, 0, 10, 10))
		out, err := b.Apply(OpSourceOverCompositing, Parameters{
			entity.KeyBackgroundImage: entity.ImageValue(background),
			entity.KeyImage:           entity.ImageValue(sticker),
		})
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{B: 255, A: 255}, pixelAt(out, 4, 4))
	})
}

func TestDefaultEffects(t *testing.T) {
	b := NewImagingBackend()
	src := newSolidImage(16, 12, color.RGBA{R: 180, G: 90, B: 40, A: 255})

	for name := range defaultEffects {
		t.Run(name, func(t *testing.T) {
			require.True(t, b.Has(name))
			out, err := b.Apply(name, Parameters{entity.KeyImage: entity.ImageValue(src)})
			require.NoError(t, err)
			assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())
		})
	}
}

func TestRegisterEffect(t *testing.T) {
	b := NewImagingBackend()
	assert.False(t, b.Has("Custom"))

	b.RegisterEffect("Custom", func(img image.Image) *image.NRGBA {
		return image.NewNRGBA(img.Bounds())
	})

	assert.True(t, b.Has("Custom"))
	assert.Contains(t, b.Names(), "Custom")
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

func pixelAt(img image.Image, x, y int) color.NRGBA {
	b := img.Bounds()
	return color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
}
