package backend

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/media-editor/internal/entity"
)

var defaultMonochromeColor = color.NRGBA{R: 153, G: 115, B: 76, A: 255}

// Rec. 709 luma weights
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

type ImagingBackend struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewImagingBackend returns a backend with the four core operations and the
// default effect set registered.
func NewImagingBackend() *ImagingBackend {
	b := &ImagingBackend{ops: make(map[string]Operation)}

	b.Register(OpColorMonochrome, colorMonochrome)
	b.Register(OpSepiaTone, sepiaTone)
	b.Register(OpSourceOverCompositing, sourceOverCompositing)
	b.Register(OpColorControls, colorControls)

	for name, fn := range defaultEffects {
		b.RegisterEffect(name, fn)
	}
	return b
}

func (b *ImagingBackend) Register(name string, op Operation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops[name] = op
}

// RegisterEffect adds a named effect that only reads the input image.
func (b *ImagingBackend) RegisterEffect(name string, fn func(image.Image) *image.NRGBA) {
	b.Register(name, func(params Parameters) (image.Image, error) {
		src, err := params.Image(entity.KeyImage)
		if err != nil {
			return nil, err
		}
		return fn(src), nil
	})
}

func (b *ImagingBackend) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.ops[name]
	return ok
}

func (b *ImagingBackend) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.ops))
	for name := range b.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *ImagingBackend) Apply(op string, params Parameters) (image.Image, error) {
	b.mu.RLock()
	fn, ok := b.ops[op]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownOperation, op)
	}

	out, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func colorMonochrome(params Parameters) (image.Image, error) {
	src, err := params.Image(entity.KeyImage)
	if err != nil {
		return nil, err
	}
	tint, err := params.Color(entity.KeyColor, defaultMonochromeColor)
	if err != nil {
		return nil, err
	}
	intensity, err := params.Float(entity.KeyIntensity, 1)
	if err != nil {
		return nil, err
	}

	tr := float64(tint.R) / 255
	tg := float64(tint.G) / 255
	tb := float64(tint.B) / 255

	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		l := luminance(c)
		return color.NRGBA{
			R: mix(c.R, l*tr, intensity),
			G: mix(c.G, l*tg, intensity),
			B: mix(c.B, l*tb, intensity),
			A: c.A,
		}
	}), nil
}

func sepiaTone(params Parameters) (image.Image, error) {
	src, err := params.Image(entity.KeyImage)
	if err != nil {
		return nil, err
	}
	intensity, err := params.Float(entity.KeyIntensity, 1)
	if err != nil {
		return nil, err
	}
	return sepia(src, intensity), nil
}

func sepia(src image.Image, intensity float64) *image.NRGBA {
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: mix(c.R, 0.393*r+0.769*g+0.189*b, intensity),
			G: mix(c.G, 0.349*r+0.686*g+0.168*b, intensity),
			B: mix(c.B, 0.272*r+0.534*g+0.131*b, intensity),
			A: c.A,
		}
	})
}

// sourceOverCompositing draws the foreground over the background. A missing
// foreground yields a copy of the background.
func sourceOverCompositing(params Parameters) (image.Image, error) {
	background, err := params.Image(entity.KeyBackgroundImage)
	if err != nil {
		return nil, err
	}
	foreground, err := params.OptionalImage(entity.KeyImage)
	if err != nil {
		return nil, err
	}
	if foreground == nil {
		return imaging.Clone(background), nil
	}
	return imaging.Overlay(background, foreground, foreground.Bounds().Min, 1.0), nil
}

// colorControls follows the usual ranges: saturation 1, brightness 0 and
// contrast 1 are the identity.
func colorControls(params Parameters) (image.Image, error) {
	src, err := params.Image(entity.KeyImage)
	if err != nil {
		return nil, err
	}
	saturation, err := params.Float(entity.KeySaturation, 1)
	if err != nil {
		return nil, err
	}
	brightness, err := params.Float(entity.KeyBrightness, 0)
	if err != nil {
		return nil, err
	}
	contrast, err := params.Float(entity.KeyContrast, 1)
	if err != nil {
		return nil, err
	}

	out := imaging.Clone(src)
	if saturation != 1 {
		out = imaging.AdjustSaturation(out, (saturation-1)*100)
	}
	if brightness != 0 {
		out = imaging.AdjustBrightness(out, brightness*100)
	}
	if contrast != 1 {
		out = imaging.AdjustContrast(out, (contrast-1)*100)
	}
	return out, nil
}

func luminance(c color.NRGBA) float64 {
	return lumR*float64(c.R) + lumG*float64(c.G) + lumB*float64(c.B)
}

func mix(orig uint8, target, t float64) uint8 {
	return clamp(float64(orig)*(1-t) + target*t)
}

func clamp(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
