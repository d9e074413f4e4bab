package qr

import (
	"image/color"

	"github.com/pkg/errors"
)

// DefaultSize is the edge length in pixels of a produced code.
const DefaultSize = 800

// Level is a QR error-correction level.
type Level string

const (
	LevelLow     Level = "L"
	LevelMedium  Level = "M"
	LevelQuart   Level = "Q"
	LevelHighest Level = "H"
)

// Valid reports whether l is one of the four QR levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelQuart, LevelHighest:
		return true
	}
	return false
}

// Shape selects how a set module is drawn.
type Shape string

const (
	ShapeSquare  Shape = "square"
	ShapeCircle  Shape = "circle"
	ShapeLiquid  Shape = "liquid"
	ShapeChain   Shape = "chain"
	ShapeHStripe Shape = "hstripe"
	ShapeVStripe Shape = "vstripe"
)

// Shapes lists every supported shape, in the order the form offers them.
var Shapes = []Shape{ShapeSquare, ShapeCircle, ShapeLiquid, ShapeChain, ShapeHStripe, ShapeVStripe}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	for _, v := range Shapes {
		if s == v {
			return true
		}
	}
	return false
}

// styled shapes are drawn by the go-qrcode standard writer instead of the
// local rasterizer.
func (s Shape) styled() bool {
	switch s {
	case ShapeLiquid, ShapeChain, ShapeHStripe, ShapeVStripe:
		return true
	}
	return false
}

// Request describes one QR code to produce.
type Request struct {
	Text       string
	Color      color.RGBA
	Background color.RGBA
	// Size is the edge length of the square output in pixels.
	Size int
	// Margin is the quiet zone in modules on every side.
	Margin int
	Level  Level
	Shape  Shape
}

// NewRequest returns a request for text in the given module color with every
// other field at its default.
func NewRequest(text string, c color.RGBA) Request {
	return Request{Text: text, Color: c}.withDefaults()
}

func (r Request) withDefaults() Request {
	if r.Color.A == 0 {
		r.Color = DefaultColor
	}
	if r.Background.A == 0 {
		r.Background = White
	}
	if r.Size == 0 {
		r.Size = DefaultSize
	}
	if r.Level == "" {
		r.Level = LevelQuart
	}
	if r.Shape == "" {
		r.Shape = ShapeSquare
	}
	return r
}

func (r Request) validate() error {
	switch {
	case r.Size < 0:
		return errors.Errorf("size must be positive, got %d", r.Size)
	case r.Margin < 0:
		return errors.Errorf("margin must not be negative, got %d", r.Margin)
	case !r.Level.Valid():
		return errors.Errorf("unknown error correction level %q", r.Level)
	case !r.Shape.Valid():
		return errors.Errorf("unknown shape %q", r.Shape)
	}
	return nil
}
