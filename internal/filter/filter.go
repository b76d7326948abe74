// Package filter holds the per-category accumulators that turn a sequence of
// customizations into one backend operation, and the fold that chains them.
package filter

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/ds124wfegd/media-editor/internal/backend"
	"github.com/ds124wfegd/media-editor/internal/entity"
	"github.com/sirupsen/logrus"
)

// Filter accumulates customizations for one category and renders them onto an image.
// Instances belong to a single editing session and are not safe for concurrent use.
type Filter interface {
	Kind() Kind
	Category() entity.Category

	// IsEmpty reports whether Render passes its input through unchanged.
	// Once set by a None customization it stays set.
	IsEmpty() bool
	SetEmpty(empty bool)

	// Ingest never fails. Customizations with keys outside the filter's
	// required set are dropped.
	Ingest(c entity.Customization)

	Render(input image.Image) (image.Image, error)
}

type Kind int

const (
	KindColor Kind = iota
	KindSticker
	KindEffects
	KindAdjustment
)

var kindNames = map[Kind]string{
	KindColor:      "color",
	KindSticker:    "sticker",
	KindEffects:    "effects",
	KindAdjustment: "adjustment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown filter kind %q", s)
}

// ParseKinds parses a configured pipeline order.
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

var requiredKeys = map[Kind][]string{
	KindColor:      {entity.KeyColor, entity.KeyIntensity},
	KindSticker:    {entity.KeyImage},
	KindEffects:    {entity.KeyEffectName},
	KindAdjustment: {entity.KeySaturation, entity.KeyBrightness, entity.KeyContrast},
}

// RequiredKeys lists the parameter keys a variant stores. Anything else is ignored.
func RequiredKeys(kind Kind) []string {
	return slices.Clone(requiredKeys[kind])
}

// Relevant reports whether ingesting c would change a filter of the given kind.
func Relevant(kind Kind, c entity.Customization) bool {
	if c.None {
		return true
	}
	if kind == KindColor && c.Sepia {
		return true
	}
	return slices.Contains(requiredKeys[kind], c.Key)
}

// New builds the variant for kind and feeds it the initial customizations in order.
func New(kind Kind, b backend.Backend, initial ...entity.Customization) (Filter, error) {
	switch kind {
	case KindColor:
		return NewColorFilter(b, initial...), nil
	case KindSticker:
		return NewStickerFilter(b, initial...), nil
	case KindEffects:
		return NewEffectsFilter(b, initial...), nil
	case KindAdjustment:
		return NewAdjustmentFilter(b, initial...), nil
	default:
		return nil, fmt.Errorf("unknown filter kind %d", int(kind))
	}
}

// accumulator is the keyed last-write-wins store shared by the map based variants.
type accumulator struct {
	required []string
	values   backend.Parameters
	empty    bool
}

func newAccumulator(kind Kind) accumulator {
	return accumulator{required: requiredKeys[kind], values: make(backend.Parameters)}
}

func (a *accumulator) IsEmpty() bool { return a.empty }

func (a *accumulator) SetEmpty(empty bool) { a.empty = empty }

// Parameters returns a copy of the accumulated values.
func (a *accumulator) Parameters() backend.Parameters {
	return a.values.Clone()
}

func (a *accumulator) accepts(key string) bool {
	return slices.Contains(a.required, key)
}

func (a *accumulator) store(kind Kind, c entity.Customization) {
	if !a.accepts(c.Key) {
		if !c.None {
			logIgnored(kind, c)
		}
		return
	}
	a.values[c.Key] = c.Value
}

func (a *accumulator) with(key string, img image.Image) backend.Parameters {
	params := a.values.Clone()
	params[key] = entity.ImageValue(img)
	return params
}

func logIgnored(kind Kind, c entity.Customization) {
	logrus.WithFields(logrus.Fields{
		"filter":   kind.String(),
		"category": c.Category.String(),
		"key":      c.Key,
	}).Debug("customization ignored")
}

func apply(b backend.Backend, op string, params backend.Parameters) (image.Image, error) {
	out, err := b.Apply(op, params)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s produced no image", entity.ErrRenderFailed, op)
	}
	return out, nil
}
