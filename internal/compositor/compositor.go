// Package compositor embeds a circular logo into the center of a QR bitmap
// while keeping the rest of the code untouched.
package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Spec is the inset policy.
type Spec struct {
	// InsetFraction is the inset diameter as a fraction of the bitmap width.
	InsetFraction float64
	// BorderWidth is the width in pixels of the ring around the inset.
	BorderWidth int
	Fill        color.Color
}

// DefaultSpec returns a 30% inset with a 5px white ring.
func DefaultSpec() Spec {
	return Spec{InsetFraction: 0.3, BorderWidth: 5, Fill: color.White}
}

// Compositor draws logos into QR bitmaps. It holds no mutable state and is
// safe for concurrent use.
type Compositor struct {
	spec   Spec
	scaler xdraw.Interpolator
}

// New returns a compositor applying spec. A non-positive InsetFraction, a
// negative BorderWidth and a nil Fill take their defaults. A zero BorderWidth
// is kept and draws no ring.
func New(spec Spec) *Compositor {
	def := DefaultSpec()
	if spec.InsetFraction <= 0 {
		spec.InsetFraction = def.InsetFraction
	}
	if spec.BorderWidth < 0 {
		spec.BorderWidth = def.BorderWidth
	}
	if spec.Fill == nil {
		spec.Fill = def.Fill
	}
	return &Compositor{spec: spec, scaler: xdraw.CatmullRom}
}

// Spec returns the policy in effect.
func (c *Compositor) Spec() Spec { return c.spec }

// Inset returns the inset diameter for a bitmap of the given width.
func (c *Compositor) Inset(width int) float64 {
	return float64(width) * c.spec.InsetFraction
}

// FitLogo places a w×h logo inside a d×d square keeping its aspect ratio. The
// longer side spans the square and the shorter one is centered. The returned
// rectangle is relative to the square's top-left corner.
func FitLogo(w, h int, d float64) image.Rectangle {
	if w <= 0 || h <= 0 || d <= 0 {
		return image.Rectangle{}
	}
	ratio := float64(w) / float64(h)
	drawW, drawH := d, d
	offX, offY := 0.0, 0.0
	if ratio > 1 {
		drawH = d / ratio
		offY = (d - drawH) / 2
	} else {
		drawW = d * ratio
		offX = (d - drawW) / 2
	}
	x0, y0 := int(math.Round(offX)), int(math.Round(offY))
	return image.Rect(x0, y0,
		x0+int(math.Max(1, math.Round(drawW))),
		y0+int(math.Max(1, math.Round(drawH))))
}

// Composite returns a copy of base with logo embedded in a circular inset at
// the center. A nil logo returns an exact copy of base. base is never
// modified.
func (c *Compositor) Composite(base image.Image, logo *Logo) (*image.RGBA, error) {
	dst := cloneRGBA(base)
	if logo == nil {
		return dst, nil
	}
	if logo.Image == nil || logo.Image.Bounds().Empty() {
		return nil, apperror.Wrapf(apperror.ErrImageDecode, "logo has no pixels")
	}

	width, height := dst.Bounds().Dx(), dst.Bounds().Dy()
	d := c.Inset(width)
	if d < 1 {
		return nil, apperror.Wrapf(apperror.ErrEncoding, "bitmap too small for a logo inset: %dpx", width)
	}
	cx, cy := float64(width)/2, float64(height)/2
	r := d / 2

	fit := FitLogo(logo.Width, logo.Height, d)
	scaled := image.NewRGBA(image.Rect(0, 0, fit.Dx(), fit.Dy()))
	c.scaler.Scale(scaled, scaled.Bounds(), logo.Image, logo.Image.Bounds(), xdraw.Src, nil)
	x := int(math.Round(cx-r)) + fit.Min.X
	y := int(math.Round(cy-r)) + fit.Min.Y

	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(c.spec.Fill)

	// inset: clear to fill color, then the logo
	dc.DrawCircle(cx, cy, r)
	dc.ClipPreserve()
	dc.Fill()
	dc.DrawImage(scaled, x, y)
	dc.ResetClip()

	// the ring fill covers the inset edge, so the logo is drawn once more on top
	dc.DrawCircle(cx, cy, r+float64(c.spec.BorderWidth))
	dc.Fill()
	dc.DrawCircle(cx, cy, r)
	dc.Clip()
	dc.DrawImage(scaled, x, y)
	dc.ResetClip()

	return dst, nil
}

// cloneRGBA copies src into a new zero-origin RGBA.
func cloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
