// Package export serializes final bitmaps into downloadable files.
package export

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/pkg/errors"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
)

// jpegQuality matches the quality used for downloadable JPEGs.
const jpegQuality = 92

// ParseFormat maps a query value to a Format. Unknown values fall back to PNG.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpg", "jpeg":
		return JPEG
	default:
		return PNG
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Filename returns the download name for a code of the given brand.
func Filename(brand string, f Format) string {
	return "QR code " + brand + "." + string(f)
}

// Encode serializes img. A nil img is apperror.ErrExportNoOp. JPEG output is
// flattened onto white since JPEG has no alpha.
func Encode(img image.Image, f Format) ([]byte, error) {
	if img == nil {
		return nil, apperror.ErrExportNoOp
	}

	var buf bytes.Buffer
	switch f {
	case JPEG:
		b := img.Bounds()
		out := image.NewRGBA(b)
		draw.Draw(out, b, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		draw.Draw(out, b, img, b.Min, draw.Over)
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, errors.Wrap(err, "encode JPEG")
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(err, "encode PNG")
		}
	}
	return buf.Bytes(), nil
}
