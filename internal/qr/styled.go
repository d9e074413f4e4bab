package qr

import (
	"bytes"
	"image"
	"image/png"

	"github.com/pkg/errors"
	yqrcode "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"github.com/yeqown/go-qrcode/writer/standard/shapes"
	xdraw "golang.org/x/image/draw"
)

// customShape implements the standard.IShape interface by wrapping drawing functions from the shapes package
type customShape struct {
	drawFunc func(ctx *standard.DrawContext)
}

// Draw implements the IShape interface
func (cs *customShape) Draw(ctx *standard.DrawContext) {
	cs.drawFunc(ctx)
}

// DrawFinder uses the same drawing function for finder patterns
func (cs *customShape) DrawFinder(ctx *standard.DrawContext) {
	cs.drawFunc(ctx)
}

func shapeOption(s Shape) standard.ImageOption {
	switch s {
	case ShapeLiquid:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.LiquidBlock()})
	case ShapeChain:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.ChainBlock()})
	case ShapeHStripe:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.HStripeBlock(0.85)})
	default:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.VStripeBlock(0.85)})
	}
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

// renderStyled draws req with the go-qrcode standard writer, then scales the
// result to exactly req.Size pixels with nearest neighbour so module edges
// stay sharp.
func renderStyled(req Request) (*image.RGBA, error) {
	qrc, err := yqrcode.NewWith(req.Text, yeqownLevel(req.Level))
	if err != nil {
		return nil, errors.Wrap(err, "create QR code")
	}

	dim := qrc.Dimension()
	if dim <= 0 {
		return nil, errors.New("invalid QR matrix dimension")
	}
	if err := checkFits(dim+2*req.Margin, req.Size); err != nil {
		return nil, err
	}
	moduleWidth := (req.Size + dim - 1) / dim
	if moduleWidth > 255 {
		moduleWidth = 255
	}
	if moduleWidth < 1 {
		moduleWidth = 1
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(nopCloser{&buf},
		standard.WithQRWidth(uint8(moduleWidth)),
		standard.WithBorderWidth(req.Margin*moduleWidth),
		standard.WithBgColor(req.Background),
		standard.WithFgColor(req.Color),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		shapeOption(req.Shape),
	)
	if err := qrc.Save(w); err != nil {
		return nil, errors.Wrap(err, "render styled QR code")
	}

	src, err := png.Decode(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "decode styled QR code")
	}
	dst := image.NewRGBA(image.Rect(0, 0, req.Size, req.Size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}
