// Image-processing backend used by the filters. Operations are looked up by name
// and receive a flat parameter set, the way filter graphs are usually described.
package backend

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ds124wfegd/media-editor/internal/entity"
)

const (
	OpColorMonochrome       = "ColorMonochrome"
	OpSepiaTone             = "SepiaTone"
	OpSourceOverCompositing = "SourceOverCompositing"
	OpColorControls         = "ColorControls"
)

type Backend interface {
	Apply(op string, params Parameters) (image.Image, error)
}

type Operation func(params Parameters) (image.Image, error)

type Parameters map[string]entity.Value

// Clone copies the map, not the values.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Parameters) Image(key string) (image.Image, error) {
	v, ok := p[key]
	if !ok || !v.IsSet() {
		return nil, fmt.Errorf("%w: %s", entity.ErrMissingInput, key)
	}
	img, ok := v.Image()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want image", entity.ErrInvalidParameter, key, v.Kind())
	}
	return img, nil
}

// OptionalImage returns nil without error when key is absent.
func (p Parameters) OptionalImage(key string) (image.Image, error) {
	if v, ok := p[key]; !ok || !v.IsSet() {
		return nil, nil
	}
	return p.Image(key)
}

func (p Parameters) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok || !v.IsSet() {
		return def, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s, want float", entity.ErrInvalidParameter, key, v.Kind())
	}
	return f, nil
}

func (p Parameters) Color(key string, def color.NRGBA) (color.NRGBA, error) {
	v, ok := p[key]
	if !ok || !v.IsSet() {
		return def, nil
	}
	c, ok := v.Color()
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: %s is %s, want color", entity.ErrInvalidParameter, key, v.Kind())
	}
	return c, nil
}
