package qr

import (
	"github.com/pkg/errors"
	skipqr "github.com/skip2/go-qrcode"
	yqrcode "github.com/yeqown/go-qrcode/v2"
)

// Encoder names accepted by NewEncoder.
const (
	EncoderYeqown = "yeqown"
	EncoderSkip2  = "skip2"
)

// Matrix is a square grid of QR modules without quiet zone.
type Matrix struct {
	size int
	bits []bool
}

// NewMatrix returns an all-clear matrix of size×size modules.
func NewMatrix(size int) *Matrix {
	return &Matrix{size: size, bits: make([]bool, size*size)}
}

// Size returns the number of modules per side.
func (m *Matrix) Size() int { return m.size }

// Get reports whether the module at (x, y) is set. Out of range reads are clear.
func (m *Matrix) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}
	return m.bits[y*m.size+x]
}

// Set sets the module at (x, y).
func (m *Matrix) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return
	}
	m.bits[y*m.size+x] = v
}

// Encoder turns text into a module matrix.
type Encoder interface {
	Encode(text string, level Level) (*Matrix, error)
	Name() string
}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "", EncoderYeqown:
		return YeqownEncoder{}, nil
	case EncoderSkip2:
		return Skip2Encoder{}, nil
	}
	return nil, errors.Errorf("unknown QR encoder %q", name)
}

// YeqownEncoder encodes with github.com/yeqown/go-qrcode.
type YeqownEncoder struct{}

// Name implements Encoder.
func (YeqownEncoder) Name() string { return EncoderYeqown }

// Encode implements Encoder.
func (YeqownEncoder) Encode(text string, level Level) (*Matrix, error) {
	qrc, err := yqrcode.NewWith(text, yeqownLevel(level))
	if err != nil {
		return nil, errors.Wrap(err, "yeqown: create QR code")
	}
	mw := &matrixWriter{}
	if err := qrc.Save(mw); err != nil {
		return nil, errors.Wrap(err, "yeqown: extract matrix")
	}
	if mw.matrix == nil {
		return nil, errors.New("yeqown: empty matrix")
	}
	return mw.matrix, nil
}

// matrixWriter implements yqrcode.Writer and keeps the raw module grid
// instead of rendering it.
type matrixWriter struct {
	matrix *Matrix
}

func (w *matrixWriter) Write(mat yqrcode.Matrix) error {
	m := NewMatrix(mat.Width())
	mat.Iterate(yqrcode.IterDirection_ROW, func(x, y int, v yqrcode.QRValue) {
		m.Set(x, y, v.IsSet())
	})
	w.matrix = m
	return nil
}

func (w *matrixWriter) Close() error { return nil }

func yeqownLevel(l Level) yqrcode.EncodeOption {
	switch l {
	case LevelLow:
		return yqrcode.WithErrorCorrectionLevel(yqrcode.ErrorCorrectionLow)
	case LevelMedium:
		return yqrcode.WithErrorCorrectionLevel(yqrcode.ErrorCorrectionMedium)
	case LevelHighest:
		return yqrcode.WithErrorCorrectionLevel(yqrcode.ErrorCorrectionHighest)
	default:
		return yqrcode.WithErrorCorrectionLevel(yqrcode.ErrorCorrectionQuart)
	}
}

// Skip2Encoder encodes with github.com/skip2/go-qrcode.
type Skip2Encoder struct{}

// Name implements Encoder.
func (Skip2Encoder) Name() string { return EncoderSkip2 }

// Encode implements Encoder.
func (Skip2Encoder) Encode(text string, level Level) (*Matrix, error) {
	q, err := skipqr.New(text, skip2Level(level))
	if err != nil {
		return nil, errors.Wrap(err, "skip2: create QR code")
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	m := NewMatrix(len(bitmap))
	for y, row := range bitmap {
		for x, set := range row {
			m.Set(x, y, set)
		}
	}
	return m, nil
}

// skip2 names the 25% level High and the 30% level Highest.
func skip2Level(l Level) skipqr.RecoveryLevel {
	switch l {
	case LevelLow:
		return skipqr.Low
	case LevelMedium:
		return skipqr.Medium
	case LevelHighest:
		return skipqr.Highest
	default:
		return skipqr.High
	}
}
