// Package pipeline runs the produce-then-composite flow shared by the web
// form, the stateless API and the command line.
package pipeline

import (
	"context"
	"image"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/compositor"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Producer renders a QR code bitmap.
type Producer interface {
	Produce(ctx context.Context, req qr.Request) (*image.RGBA, error)
}

// Compositor embeds an optional logo into a bitmap.
type Compositor interface {
	Composite(base image.Image, logo *compositor.Logo) (*image.RGBA, error)
}

// Pipeline produces a code and, when a logo is given, composites it.
type Pipeline struct {
	producer   Producer
	compositor Compositor
	defaults   qr.Request
	log        *zap.Logger
}

// New returns a pipeline. defaults supplies Size, Margin, Level and Shape for
// requests that leave them unset.
func New(p Producer, c Compositor, defaults qr.Request, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{producer: p, compositor: c, defaults: defaults, log: log}
}

// Request fills the zero fields of req from the pipeline defaults.
func (p *Pipeline) Request(req qr.Request) qr.Request {
	if req.Size == 0 {
		req.Size = p.defaults.Size
	}
	if req.Margin == 0 {
		req.Margin = p.defaults.Margin
	}
	if req.Level == "" {
		req.Level = p.defaults.Level
	}
	if req.Shape == "" {
		req.Shape = p.defaults.Shape
	}
	if req.Background.A == 0 {
		req.Background = p.defaults.Background
	}
	return req
}

// Generate returns the final bitmap for req with logo applied. Errors carry
// an apperror kind; a failure never yields a partial bitmap.
func (p *Pipeline) Generate(ctx context.Context, req qr.Request, logo *compositor.Logo) (*image.RGBA, error) {
	base, err := p.producer.Produce(ctx, p.Request(req))
	if err != nil {
		return nil, err
	}
	if logo == nil {
		return base, nil
	}

	out, err := p.compositor.Composite(base, logo)
	if err != nil {
		if apperror.KindOf(err) == nil {
			err = apperror.Wrap(apperror.ErrEncoding, errors.Wrap(err, "composite logo"))
		}
		p.log.Warn("logo compositing failed", zap.String("error_code", apperror.Code(err)), zap.Error(err))
		return nil, err
	}
	return out, nil
}
