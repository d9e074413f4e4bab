// Package session holds the per-browser form state and applies the
// regeneration rules of the QR form to it.
package session

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/compositor"
	"github.com/cristianadrielbraun/qrlogo/internal/export"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"go.uber.org/zap"
)

// Generator produces the final bitmap for a request and optional logo.
type Generator interface {
	Generate(ctx context.Context, req qr.Request, logo *compositor.Logo) (*image.RGBA, error)
}

// LogoDecoder turns uploaded bytes into a logo.
type LogoDecoder func(data []byte) (*compositor.Logo, error)

// State is a snapshot of one form. Result and Logo are never mutated once
// stored, so snapshots may share them.
type State struct {
	Text  string
	Color color.RGBA

	Logo *compositor.Logo
	// LogoVersion increases with every stored Logo.
	LogoVersion int

	// Result is the last successfully generated bitmap, nil before the first.
	Result *image.RGBA
	// Version increases with every stored Result.
	Version     int
	GeneratedAt time.Time
}

// HasResult reports whether a bitmap has been generated.
func (s State) HasResult() bool { return s.Result != nil }

// Controller owns the state of one form. Its operations are serialized, so
// overlapping triggers from the same browser run one after another and the
// last one to finish wins.
type Controller struct {
	id     string
	gen    Generator
	decode LogoDecoder
	log    *zap.Logger

	mu    sync.Mutex
	state State
}

// NewController returns an empty form with the given initial color.
func NewController(id string, gen Generator, decode LogoDecoder, initial color.RGBA, log *zap.Logger) *Controller {
	if decode == nil {
		decode = compositor.DecodeLogo
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		id:     id,
		gen:    gen,
		decode: decode,
		log:    log.With(zap.String("session", id)),
		state:  State{Color: initial},
	}
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnTextChanged records the input text. It never regenerates.
func (c *Controller) OnTextChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Text = text
}

// OnGenerateRequested stores text and col and generates with the current
// logo. On failure the previous result stays in place.
func (c *Controller) OnGenerateRequested(ctx context.Context, text string, col color.RGBA) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Text = text
	c.state.Color = col
	return c.generateLocked(ctx, "generate")
}

// OnLogoSelected decodes and stores a new logo. It never regenerates; the
// displayed result keeps the previous logo until the next generation. A logo
// that fails to decode leaves logo and result unchanged.
func (c *Controller) OnLogoSelected(data []byte) (*compositor.Logo, error) {
	logo, err := c.decode(data)
	if err != nil {
		c.log.Info("logo rejected", zap.String("error_code", apperror.Code(err)), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Logo = logo
	c.state.LogoVersion++
	c.log.Debug("logo selected",
		zap.String("mime", logo.MIME),
		zap.Int("width", logo.Width),
		zap.Int("height", logo.Height))
	return logo, nil
}

// OnColorChanged stores col and, when text is present and a result already
// exists, regenerates with the current text and logo. It reports whether a
// regeneration happened.
func (c *Controller) OnColorChanged(ctx context.Context, col color.RGBA) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Color = col
	if c.state.Text == "" || c.state.Result == nil {
		return false, nil
	}
	if _, err := c.generateLocked(ctx, "color"); err != nil {
		return false, err
	}
	return true, nil
}

// Export encodes the current result as PNG. With nothing generated it returns
// apperror.ErrExportNoOp, which callers ignore.
func (c *Controller) Export() ([]byte, int, error) {
	c.mu.Lock()
	result, version := c.state.Result, c.state.Version
	c.mu.Unlock()

	if result == nil {
		return nil, 0, apperror.ErrExportNoOp
	}
	data, err := export.Encode(result, export.PNG)
	if err != nil {
		return nil, 0, apperror.Wrap(apperror.ErrEncoding, err)
	}
	return data, version, nil
}

func (c *Controller) generateLocked(ctx context.Context, trigger string) (*image.RGBA, error) {
	if c.state.Text == "" {
		return nil, apperror.ErrEmptyPayload
	}

	start := time.Now()
	img, err := c.gen.Generate(ctx, qr.Request{Text: c.state.Text, Color: c.state.Color}, c.state.Logo)
	if err != nil {
		c.log.Warn("generation failed",
			zap.String("trigger", trigger),
			zap.String("error_code", apperror.Code(err)),
			zap.Error(err))
		return nil, err
	}

	c.state.Result = img
	c.state.Version++
	c.state.GeneratedAt = time.Now()
	c.log.Info("QR generated",
		zap.String("trigger", trigger),
		zap.Int("version", c.state.Version),
		zap.Bool("logo", c.state.Logo != nil),
		zap.Duration("took", time.Since(start)))
	return img, nil
}
