package compositor

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// thumbnailPadding is the gap in pixels between the preview circle and the logo.
const thumbnailPadding = 4

// Thumbnail renders logo contained in a white circle of the given diameter,
// transparent outside the circle. It backs the logo preview next to the
// upload button.
func Thumbnail(logo *Logo, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if logo == nil || size <= 0 {
		return dst
	}

	inner := float64(size - 2*thumbnailPadding)
	if inner < 1 {
		inner = float64(size)
	}
	fit := FitLogo(logo.Width, logo.Height, inner)
	scaled := image.NewRGBA(image.Rect(0, 0, fit.Dx(), fit.Dy()))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), logo.Image, logo.Image.Bounds(), xdraw.Src, nil)

	half := float64(size) / 2
	offset := (float64(size) - inner) / 2
	dc := gg.NewContextForRGBA(dst)
	dc.DrawCircle(half, half, half)
	dc.ClipPreserve()
	dc.SetColor(color.White)
	dc.Fill()
	dc.DrawImage(scaled, int(offset)+fit.Min.X, int(offset)+fit.Min.Y)
	dc.ResetClip()
	return dst
}
