package entity

import (
	"fmt"
	"image"
	"image/color"
)

type ValueKind int

const (
	KindUnset ValueKind = iota
	KindColor
	KindFloat
	KindImage
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindFloat:
		return "float"
	case KindImage:
		return "image"
	case KindString:
		return "string"
	default:
		return "unset"
	}
}

// Value is the payload of a customization or of a backend parameter.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Value struct {
	kind  ValueKind
	color color.NRGBA
	num   float64
	img   image.Image
	str   string
}

func ColorValue(c color.Color) Value {
	return Value{kind: KindColor, color: color.NRGBAModel.Convert(c).(color.NRGBA)}
}

func FloatValue(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

func ImageValue(img image.Image) Value {
	if img == nil {
		return Value{}
	}
	return Value{kind: KindImage, img: img}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsSet() bool { return v.kind != KindUnset }

func (v Value) Color() (color.NRGBA, bool) {
	return v.color, v.kind == KindColor
}

func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindFloat
}

func (v Value) Image() (image.Image, bool) {
	return v.img, v.kind == KindImage
}

func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) GoString() string {
	switch v.kind {
	case KindColor:
		return fmt.Sprintf("color(%d,%d,%d,%d)", v.color.R, v.color.G, v.color.B, v.color.A)
	case KindFloat:
		return fmt.Sprintf("float(%g)", v.num)
	case KindImage:
		return fmt.Sprintf("image(%v)", v.img.Bounds())
	case KindString:
		return fmt.Sprintf("string(%q)", v.str)
	default:
		return "unset"
	}
}
