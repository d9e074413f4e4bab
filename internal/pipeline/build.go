package pipeline

import (
	"github.com/cristianadrielbraun/qrlogo/internal/compositor"
	"github.com/cristianadrielbraun/qrlogo/internal/config"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FromConfig assembles the encoder, producer and compositor described by cfg.
func FromConfig(cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	enc, err := qr.NewEncoder(cfg.Encoder)
	if err != nil {
		return nil, err
	}
	if _, err := qr.ParseHexColor(cfg.DefaultColor); err != nil {
		return nil, errors.Wrap(err, "QR_DEFAULT_COLOR")
	}

	comp := compositor.New(compositor.Spec{
		InsetFraction: cfg.InsetFraction,
		BorderWidth:   cfg.BorderWidth,
		Fill:          qr.White,
	})
	defaults := qr.Request{
		Background: qr.White,
		Size:       cfg.QRSize,
		Margin:     cfg.QRMargin,
		Level:      qr.Level(cfg.Level),
		Shape:      qr.ShapeSquare,
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("pipeline configured",
		zap.String("encoder", enc.Name()),
		zap.Int("size", cfg.QRSize),
		zap.String("level", cfg.Level),
		zap.Float64("inset_fraction", cfg.InsetFraction))
	return New(qr.NewProducer(enc, log), comp, defaults, log), nil
}
