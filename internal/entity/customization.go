package entity

import (
	"image"
	"image/color"
)

// Parameter keys understood by the image backend.
const (
	KeyImage           = "inputImage"
	KeyBackgroundImage = "inputBackgroundImage"
	KeyColor           = "inputColor"
	KeyIntensity       = "inputIntensity"
	KeySaturation      = "inputSaturation"
	KeyBrightness      = "inputBrightness"
	KeyContrast        = "inputContrast"

	// KeyEffectName is local to the effects filter; the backend never sees it.
	KeyEffectName = "__EFFECT_NAME__"
)

// Customization is one user choice. It is a value type and never mutated after construction.
type Customization struct {
	Category Category
	Key      string
	Value    Value
	None     bool
	Sepia    bool
}

func None(category Category) Customization {
	return Customization{Category: category, None: true}
}

func Sepia() Customization {
	return Customization{Category: CategoryFilters, Sepia: true}
}

func Color(c color.Color) Customization {
	return Customization{Category: CategoryFilters, Key: KeyColor, Value: ColorValue(c)}
}

func Intensity(f float64) Customization {
	return Customization{Category: CategoryFilters, Key: KeyIntensity, Value: FloatValue(f)}
}

func Effect(name string) Customization {
	return Customization{Category: CategoryFilters, Key: KeyEffectName, Value: StringValue(name)}
}

func Saturation(f float64) Customization {
	return Customization{Category: CategoryAdjustments, Key: KeySaturation, Value: FloatValue(f)}
}

func Brightness(f float64) Customization {
	return Customization{Category: CategoryAdjustments, Key: KeyBrightness, Value: FloatValue(f)}
}

func Contrast(f float64) Customization {
	return Customization{Category: CategoryAdjustments, Key: KeyContrast, Value: FloatValue(f)}
}

func Sticker(img image.Image) Customization {
	return Customization{Category: CategoryStickers, Key: KeyImage, Value: ImageValue(img)}
}
