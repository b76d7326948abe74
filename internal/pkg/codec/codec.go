// Package codec decodes uploaded images and encodes rendered ones.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/media-editor/internal/entity"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var validExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

func IsSupportedExt(filename string) bool {
	return validExtensions[strings.ToLower(filepath.Ext(filename))]
}

// DefaultMaxPixels bounds decoded images when no limit is configured.
const DefaultMaxPixels = 50_000_000

// Decode is DecodeLimit with DefaultMaxPixels.
func Decode(r io.Reader) (image.Image, string, error) {
	return DecodeLimit(r, DefaultMaxPixels)
}

// DecodeLimit returns the image (with EXIF orientation applied) and the detected
// format name. The header is checked against maxPixels before any pixel buffer
// is allocated; maxPixels <= 0 means DefaultMaxPixels.
// Only the first frame of an animated GIF is kept.
func DecodeLimit(r io.Reader, maxPixels int) (image.Image, string, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", entity.ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: %dx%d", entity.ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", entity.ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", entity.ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// Encode writes img as png or jpeg. Anything else falls back to png.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch normalize(format) {
	case "jpeg":
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return imaging.Encode(w, img, imaging.PNG)
	}
}

func ContentType(format string) string {
	if normalize(format) == "jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}

func normalize(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "jpeg"
	default:
		return "png"
	}
}
