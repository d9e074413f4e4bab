package compositor

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var red = color.RGBA{R: 0xff, A: 0xff}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func logoOf(img image.Image) *Logo {
	b := img.Bounds()
	return &Logo{Image: img, Width: b.Dx(), Height: b.Dy(), MIME: "image/png"}
}

func produce(t *testing.T) *image.RGBA {
	t.Helper()
	p := qr.NewProducer(qr.YeqownEncoder{}, zaptest.NewLogger(t))
	img, err := p.Produce(context.Background(), qr.NewRequest("https://example.com", qr.DefaultColor))
	require.NoError(t, err)
	return img
}

func dist(x, y int, cx, cy float64) float64 {
	return math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
}

func isRed(c color.RGBA) bool {
	return c.R > 250 && c.G < 5 && c.B < 5 && c.A == 0xff
}

func isWhite(c color.RGBA) bool {
	return c.R == 0xff && c.G == 0xff && c.B == 0xff && c.A == 0xff
}

func TestFitLogo(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		d    float64
		want image.Rectangle
	}{
		{"square", 200, 200, 240, image.Rect(0, 0, 240, 240)},
		{"wide 2:1", 400, 200, 240, image.Rect(0, 60, 240, 180)},
		{"tall 1:2", 200, 400, 240, image.Rect(60, 0, 180, 240)},
		{"tiny square upscaled", 10, 10, 240, image.Rect(0, 0, 240, 240)},
		{"extreme wide keeps a row", 10000, 1, 240, image.Rect(0, 120, 240, 121)},
		{"extreme tall keeps a column", 1, 10000, 240, image.Rect(120, 0, 121, 240)},
		{"zero size", 0, 10, 240, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitLogo(tt.w, tt.h, tt.d)
			assert.Equal(t, tt.want, got)
			if !got.Empty() {
				assert.True(t, got.In(image.Rect(0, 0, int(tt.d), int(tt.d))), "logo must stay inside the inset")
			}
		})
	}
}

func TestCompositeWithoutLogoIsIdentical(t *testing.T) {
	base := produce(t)
	c := New(DefaultSpec())

	out, err := c.Composite(base, nil)
	require.NoError(t, err)

	assert.Equal(t, base.Bounds(), out.Bounds())
	assert.Equal(t, base.Pix, out.Pix)
	assert.NotSame(t, &base.Pix[0], &out.Pix[0])
}

func TestCompositeIsIdempotent(t *testing.T) {
	base := produce(t)
	logo := logoOf(solid(300, 150, red))
	c := New(DefaultSpec())

	a, err := c.Composite(base, logo)
	require.NoError(t, err)
	b, err := c.Composite(base, logo)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
}

func TestCompositeLeavesBaseUntouched(t *testing.T) {
	base := produce(t)
	before := append([]uint8(nil), base.Pix...)

	_, err := New(DefaultSpec()).Composite(base, logoOf(solid(50, 50, red)))
	require.NoError(t, err)

	assert.Equal(t, before, base.Pix)
}

func TestCompositeSquareLogo(t *testing.T) {
	base := produce(t)
	out, err := New(DefaultSpec()).Composite(base, logoOf(solid(200, 200, red)))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 800, 800), out.Bounds())

	const cx, cy, r, border = 400.0, 400.0, 120.0, 5.0
	for y := 0; y < 800; y++ {
		for x := 0; x < 800; x++ {
			d := dist(x, y, cx, cy)
			switch {
			case d > r+border+1.5:
				if out.RGBAAt(x, y) != base.RGBAAt(x, y) {
					t.Fatalf("pixel (%d,%d) outside the ring changed", x, y)
				}
			case d > r+1.5 && d < r+border-1.5:
				if !isWhite(out.RGBAAt(x, y)) {
					t.Fatalf("ring pixel (%d,%d) is %v, want white", x, y, out.RGBAAt(x, y))
				}
			case d < r-1.5:
				if !isRed(out.RGBAAt(x, y)) {
					t.Fatalf("inset pixel (%d,%d) is %v, want logo", x, y, out.RGBAAt(x, y))
				}
			}
		}
	}
}

func TestCompositeWideLogoCenteredVertically(t *testing.T) {
	base := produce(t)
	out, err := New(DefaultSpec()).Composite(base, logoOf(solid(400, 200, red)))
	require.NoError(t, err)

	// inset spans 280..520; a 2:1 logo is 240x120 at y 340..460
	assert.True(t, isRed(out.RGBAAt(400, 345)))
	assert.True(t, isRed(out.RGBAAt(400, 455)))
	assert.True(t, isRed(out.RGBAAt(290, 400)))
	assert.True(t, isWhite(out.RGBAAt(400, 330)))
	assert.True(t, isWhite(out.RGBAAt(400, 470)))
}

func TestCompositeTallLogoCenteredHorizontally(t *testing.T) {
	base := produce(t)
	out, err := New(DefaultSpec()).Composite(base, logoOf(solid(100, 200, red)))
	require.NoError(t, err)

	assert.True(t, isRed(out.RGBAAt(345, 400)))
	assert.True(t, isRed(out.RGBAAt(455, 400)))
	assert.True(t, isRed(out.RGBAAt(400, 290)))
	assert.True(t, isWhite(out.RGBAAt(330, 400)))
	assert.True(t, isWhite(out.RGBAAt(470, 400)))
}

func TestCompositeTransparentLogoShowsWhiteInset(t *testing.T) {
	base := produce(t)
	out, err := New(DefaultSpec()).Composite(base, logoOf(image.NewRGBA(image.Rect(0, 0, 64, 64))))
	require.NoError(t, err)

	for _, p := range []image.Point{{400, 400}, {300, 400}, {400, 515}} {
		assert.True(t, isWhite(out.RGBAAt(p.X, p.Y)), "pixel %v", p)
	}
}

func TestCompositeKeepsCodeScannable(t *testing.T) {
	base := produce(t)
	logo := logoOf(solid(120, 120, color.RGBA{A: 0xff}))

	out, err := New(DefaultSpec()).Composite(base, logo)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", scan(t, out))
}

func TestCompositeCustomSpec(t *testing.T) {
	base := solid(100, 100, color.Black)
	out, err := New(Spec{InsetFraction: 0.5, BorderWidth: 10, Fill: color.White}).
		Composite(base, logoOf(image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, err)

	// inset radius 25 plus a 10px ring
	assert.True(t, isWhite(out.RGBAAt(50, 50)))
	assert.True(t, isWhite(out.RGBAAt(50+32, 50)))
	assert.Equal(t, color.RGBA{A: 0xff}, out.RGBAAt(50+38, 50))
}

func TestCompositeEmptyLogo(t *testing.T) {
	base := produce(t)
	_, err := New(DefaultSpec()).Composite(base, &Logo{})
	assert.True(t, errors.Is(err, apperror.ErrImageDecode))
}

func TestCompositeNonZeroOriginBase(t *testing.T) {
	base := solid(200, 200, color.Black).SubImage(image.Rect(50, 50, 150, 150))

	out, err := New(DefaultSpec()).Composite(base, nil)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Spec{BorderWidth: -1})
	assert.Equal(t, DefaultSpec(), c.Spec())
	assert.Equal(t, 240.0, c.Inset(800))
}

func TestNewKeepsZeroBorder(t *testing.T) {
	c := New(Spec{InsetFraction: 0.25})
	assert.Equal(t, 0, c.Spec().BorderWidth)
	assert.Equal(t, color.White, c.Spec().Fill)
	assert.Equal(t, 200.0, c.Inset(800))
}
