package entity

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
)

// CustomizationDTO is the wire form of a Customization. Image values travel as
// references to uploaded images and are resolved before rendering.
type CustomizationDTO struct {
	Category string    `json:"category" binding:"required"`
	Key      string    `json:"key,omitempty"`
	Value    *ValueDTO `json:"value,omitempty"`
	None     bool      `json:"none,omitempty"`
	Sepia    bool      `json:"sepia,omitempty"`
}

type ValueDTO struct {
	Type     string   `json:"type" binding:"required,oneof=color float image string"`
	Color    *RGBA    `json:"color,omitempty"`
	Float    *float64 `json:"float,omitempty"`
	ImageRef string   `json:"image_ref,omitempty"`
	Text     string   `json:"text,omitempty"`
}

type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type ImageResolver func(ref string) (image.Image, error)

// Validate checks the shape of the DTO without touching storage.
func (d CustomizationDTO) Validate() error {
	if _, err := ParseCategory(d.Category); err != nil {
		return err
	}
	if d.None || d.Sepia || d.Value == nil {
		return nil
	}
	v := d.Value
	switch v.Type {
	case "color":
		if v.Color == nil {
			return fmt.Errorf("%w: color value without color", ErrInvalidCustomization)
		}
	case "float":
		if v.Float == nil {
			return fmt.Errorf("%w: float value without float", ErrInvalidCustomization)
		}
	case "image":
		if v.ImageRef == "" {
			return fmt.Errorf("%w: image value without image_ref", ErrInvalidCustomization)
		}
	case "string":
	default:
		return fmt.Errorf("%w: unknown value type %q", ErrInvalidCustomization, v.Type)
	}
	return nil
}

// ImageRefs lists the image references a batch of DTOs depends on.
func ImageRefs(dtos []CustomizationDTO) []string {
	var refs []string
	for _, d := range dtos {
		if d.Value != nil && d.Value.Type == "image" && d.Value.ImageRef != "" {
			refs = append(refs, d.Value.ImageRef)
		}
	}
	return refs
}

func (d CustomizationDTO) ToCustomization(resolve ImageResolver) (Customization, error) {
	if err := d.Validate(); err != nil {
		return Customization{}, err
	}
	category, _ := ParseCategory(d.Category)

	c := Customization{
		Category: category,
		Key:      d.Key,
		None:     d.None,
		Sepia:    d.Sepia,
	}
	if d.Value == nil {
		return c, nil
	}

	switch d.Value.Type {
	case "color":
		rgba := d.Value.Color
		c.Value = ColorValue(color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: rgba.A})
	case "float":
		c.Value = FloatValue(*d.Value.Float)
	case "string":
		c.Value = StringValue(d.Value.Text)
	case "image":
		if resolve == nil {
			return Customization{}, fmt.Errorf("%w: %s", ErrUnresolvedImageRef, d.Value.ImageRef)
		}
		img, err := resolve(d.Value.ImageRef)
		if err != nil {
			return Customization{}, fmt.Errorf("%w: %s: %w", ErrUnresolvedImageRef, d.Value.ImageRef, err)
		}
		c.Value = ImageValue(img)
	}
	return c, nil
}

func ToCustomizations(dtos []CustomizationDTO, resolve ImageResolver) ([]Customization, error) {
	out := make([]Customization, 0, len(dtos))
	for i, d := range dtos {
		c, err := d.ToCustomization(resolve)
		if err != nil {
			return nil, fmt.Errorf("customization %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (d *CustomizationDTO) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *CustomizationDTO) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
