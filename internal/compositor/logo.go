package compositor

import (
	"bytes"
	"image"
	"math"
	"strings"

	// Register decoders beyond the ones imaging already pulls in.
	_ "golang.org/x/image/webp"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgRasterSize is the longer edge, in pixels, at which SVG logos are rasterized.
const svgRasterSize = 512

// Logo is a decoded logo image. It is never modified after decoding; a new
// upload produces a new Logo.
type Logo struct {
	Image  image.Image
	Width  int
	Height int
	// MIME is the sniffed content type of the uploaded bytes.
	MIME string
}

// DecodeLogo decodes raw upload bytes into a Logo. SVG is rasterized, raster
// formats are decoded with EXIF orientation applied. Failures are
// apperror.ErrImageDecode.
func DecodeLogo(data []byte) (*Logo, error) {
	if len(data) == 0 {
		return nil, apperror.Wrapf(apperror.ErrImageDecode, "empty logo")
	}

	mt := mimetype.Detect(data)
	var (
		img image.Image
		err error
	)
	switch {
	case mt.Is("image/svg+xml"):
		img, err = decodeSVG(data)
	case strings.HasPrefix(mt.String(), "image/"):
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	default:
		return nil, apperror.Wrapf(apperror.ErrImageDecode, "unsupported content type %s", mt.String())
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrImageDecode, errors.Wrapf(err, "decode %s", mt.String()))
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, apperror.Wrapf(apperror.ErrImageDecode, "logo has no pixels")
	}
	return &Logo{Image: img, Width: b.Dx(), Height: b.Dy(), MIME: mt.String()}, nil
}

func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(err, "parse svg")
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, errors.New("svg has no viewBox size")
	}

	scale := svgRasterSize / math.Max(w, h)
	pw := int(math.Max(1, math.Round(w*scale)))
	ph := int(math.Max(1, math.Round(h*scale)))
	icon.SetTarget(0, 0, float64(pw), float64(ph))

	rgba := image.NewRGBA(image.Rect(0, 0, pw, ph))
	scanner := rasterx.NewScannerGV(pw, ph, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(pw, ph, scanner), 1)
	return rgba, nil
}
