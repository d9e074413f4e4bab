// Package qr produces QR code bitmaps of a fixed pixel size from text.
package qr

import (
	"context"
	"image"
	"time"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Producer turns encoding requests into bitmaps. It is safe for concurrent use.
type Producer struct {
	encoder Encoder
	log     *zap.Logger
}

// NewProducer returns a producer backed by enc.
func NewProducer(enc Encoder, log *zap.Logger) *Producer {
	if enc == nil {
		enc = YeqownEncoder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{encoder: enc, log: log}
}

// Produce renders req into a new bitmap of req.Size×req.Size pixels. An empty
// text fails with apperror.ErrEmptyPayload before the encoder runs; every
// other failure is an apperror.ErrEncoding.
func (p *Producer) Produce(ctx context.Context, req Request) (*image.RGBA, error) {
	if req.Text == "" {
		return nil, apperror.ErrEmptyPayload
	}
	req = req.withDefaults()
	if err := req.validate(); err != nil {
		return nil, apperror.Wrap(apperror.ErrEncoding, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperror.Wrap(apperror.ErrEncoding, err)
	}

	start := time.Now()
	var (
		img *image.RGBA
		err error
	)
	if req.Shape.styled() {
		img, err = renderStyled(req)
	} else {
		var m *Matrix
		m, err = p.encoder.Encode(req.Text, req.Level)
		if err == nil {
			if m.Size() == 0 {
				err = errors.New("encoder returned an empty matrix")
			} else if err = checkFits(m.Size()+2*req.Margin, req.Size); err == nil {
				img = rasterize(m, req)
			}
		}
	}
	if err != nil {
		p.log.Warn("QR encoding failed",
			zap.String("encoder", p.encoder.Name()),
			zap.String("shape", string(req.Shape)),
			zap.Int("text_len", len(req.Text)),
			zap.Error(err))
		return nil, apperror.Wrap(apperror.ErrEncoding, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperror.Wrap(apperror.ErrEncoding, err)
	}

	p.log.Debug("QR produced",
		zap.String("encoder", p.encoder.Name()),
		zap.String("shape", string(req.Shape)),
		zap.Int("size", req.Size),
		zap.Duration("took", time.Since(start)))
	return img, nil
}
