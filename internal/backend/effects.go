package backend

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

var defaultEffects = map[string]func(image.Image) *image.NRGBA{
	"Sepia":      func(img image.Image) *image.NRGBA { return sepia(img, 1) },
	"Mono":       imaging.Grayscale,
	"Noir":       noir,
	"Invert":     imaging.Invert,
	"Blur":       func(img image.Image) *image.NRGBA { return imaging.Blur(img, 2) },
	"Sharpen":    func(img image.Image) *image.NRGBA { return imaging.Sharpen(img, 1) },
	"Emboss":     emboss,
	"EdgeDetect": edgeDetect,
	"Vignette":   vignette,
}

func noir(img image.Image) *image.NRGBA {
	return imaging.AdjustContrast(imaging.Grayscale(img), 40)
}

func emboss(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, [9]float64{
		-1, -1, 0,
		-1, 1, 1,
		0, 1, 1,
	}, nil)
}

func edgeDetect(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}, nil)
}

// vignette darkens towards the corners with a gaussian falloff that reaches
// full strength at half the diagonal.
func vignette(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return out
	}

	const strength = 0.8
	radius := math.Hypot(float64(w), float64(h)) / 2
	sigma := radius / 2
	norm := 1 - math.Exp(-0.5*(radius*radius)/(sigma*sigma))
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			mask := (1 - math.Exp(-0.5*(d*d)/(sigma*sigma))) / norm
			if mask > 1 {
				mask = 1
			}
			factor := 1 - mask*strength

			i := out.PixOffset(b.Min.X+x, b.Min.Y+y)
			out.Pix[i+0] = clamp(float64(out.Pix[i+0]) * factor)
			out.Pix[i+1] = clamp(float64(out.Pix[i+1]) * factor)
			out.Pix[i+2] = clamp(float64(out.Pix[i+2]) * factor)
		}
	}
	return out
}
