package qr

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) Encode(text string, level Level) (*Matrix, error) {
	args := m.Called(text, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Matrix), args.Error(1)
}

func (m *MockEncoder) Name() string { return "mock" }

func TestProduceExampleScenario(t *testing.T) {
	p := NewProducer(YeqownEncoder{}, zaptest.NewLogger(t))

	img, err := p.Produce(context.Background(), NewRequest("https://example.com", DefaultColor))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 800, 800), img.Bounds())
	// zero margin: the finder pattern starts at the very first pixel
	assert.Equal(t, DefaultColor, img.RGBAAt(0, 0))
	assert.Equal(t, DefaultColor, img.RGBAAt(799, 0))
	assert.Equal(t, DefaultColor, img.RGBAAt(0, 799))

	var fg, bg, other int
	for y := 0; y < 800; y += 7 {
		for x := 0; x < 800; x += 7 {
			switch img.RGBAAt(x, y) {
			case DefaultColor:
				fg++
			case White:
				bg++
			default:
				other++
			}
		}
	}
	assert.Positive(t, fg)
	assert.Positive(t, bg)
	assert.Zero(t, other, "square modules are drawn without anti-aliasing")

	assert.Equal(t, "https://example.com", scan(t, img))
}

func TestProduceEmptyPayload(t *testing.T) {
	enc := new(MockEncoder)
	p := NewProducer(enc, zaptest.NewLogger(t))

	img, err := p.Produce(context.Background(), NewRequest("", DefaultColor))

	assert.Nil(t, img)
	assert.True(t, errors.Is(err, apperror.ErrEmptyPayload))
	enc.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything)
}

func TestProduceEncoderFailure(t *testing.T) {
	enc := new(MockEncoder)
	enc.On("Encode", "hello", LevelQuart).Return(nil, errors.New("capacity exceeded"))
	p := NewProducer(enc, zaptest.NewLogger(t))

	img, err := p.Produce(context.Background(), NewRequest("hello", DefaultColor))

	assert.Nil(t, img)
	assert.True(t, errors.Is(err, apperror.ErrEncoding))
	enc.AssertExpectations(t)
}

func TestProduceTooLong(t *testing.T) {
	p := NewProducer(YeqownEncoder{}, zaptest.NewLogger(t))

	_, err := p.Produce(context.Background(), NewRequest(strings.Repeat("x", 8000), DefaultColor))
	assert.True(t, errors.Is(err, apperror.ErrEncoding))
}

func TestProduceCancelled(t *testing.T) {
	enc := new(MockEncoder)
	p := NewProducer(enc, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Produce(ctx, NewRequest("hello", DefaultColor))
	assert.True(t, errors.Is(err, apperror.ErrEncoding))
	enc.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything)
}

func TestProduceInvalidRequest(t *testing.T) {
	p := NewProducer(YeqownEncoder{}, zaptest.NewLogger(t))
	base := NewRequest("hello", DefaultColor)

	for name, mutate := range map[string]func(*Request){
		"negative size":   func(r *Request) { r.Size = -1 },
		"negative margin": func(r *Request) { r.Margin = -2 },
		"bad level":       func(r *Request) { r.Level = "Z" },
		"bad shape":       func(r *Request) { r.Shape = "star" },
	} {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := p.Produce(context.Background(), req)
			assert.True(t, errors.Is(err, apperror.ErrEncoding))
		})
	}
}

func TestProduceMarginAndSize(t *testing.T) {
	m := NewMatrix(21)
	for i := 0; i < 21; i++ {
		m.Set(i, i, true)
	}
	enc := new(MockEncoder)
	enc.On("Encode", "diag", LevelMedium).Return(m, nil)
	p := NewProducer(enc, zaptest.NewLogger(t))

	req := NewRequest("diag", DefaultColor)
	req.Size = 250
	req.Margin = 2
	req.Level = LevelMedium
	img, err := p.Produce(context.Background(), req)
	require.NoError(t, err)

	// 25 cells over 250 pixels: 10 pixels per cell, first two cells are quiet zone
	assert.Equal(t, image.Rect(0, 0, 250, 250), img.Bounds())
	assert.Equal(t, White, img.RGBAAt(5, 5))
	assert.Equal(t, White, img.RGBAAt(19, 19))
	assert.Equal(t, DefaultColor, img.RGBAAt(20, 20))
	assert.Equal(t, DefaultColor, img.RGBAAt(29, 29))
	assert.Equal(t, White, img.RGBAAt(30, 20))
	assert.Equal(t, DefaultColor, img.RGBAAt(229, 229))
	assert.Equal(t, White, img.RGBAAt(230, 230))
}

func TestProduceUnevenCells(t *testing.T) {
	edges := moduleEdges(21, 800)
	assert.Equal(t, 0, edges[0])
	assert.Equal(t, 800, edges[21])
	for i := 1; i < len(edges); i++ {
		w := edges[i] - edges[i-1]
		assert.True(t, w == 38 || w == 39, "cell %d is %d wide", i-1, w)
	}
}

func TestProduceSkip2Scans(t *testing.T) {
	p := NewProducer(Skip2Encoder{}, zaptest.NewLogger(t))

	img, err := p.Produce(context.Background(), NewRequest("https://example.com/skip2", DefaultColor))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/skip2", scan(t, img))
}

func TestProduceShapes(t *testing.T) {
	p := NewProducer(YeqownEncoder{}, zaptest.NewLogger(t))

	for _, shape := range Shapes {
		t.Run(string(shape), func(t *testing.T) {
			req := NewRequest("https://example.com", DefaultColor)
			req.Shape = shape
			img, err := p.Produce(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 800, 800), img.Bounds())

			dark := 0
			for y := 0; y < 800; y += 5 {
				for x := 0; x < 800; x += 5 {
					if c := img.RGBAAt(x, y); c.B > 100 && c.R < 100 {
						dark++
					}
				}
			}
			assert.Positive(t, dark)
		})
	}
}

func TestProduceDoesNotShareBitmaps(t *testing.T) {
	p := NewProducer(YeqownEncoder{}, zaptest.NewLogger(t))
	req := NewRequest("same", DefaultColor)

	a, err := p.Produce(context.Background(), req)
	require.NoError(t, err)
	b, err := p.Produce(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
	a.Pix[0] = 0
	assert.NotEqual(t, a.Pix[0], b.Pix[0])
}

func TestProduceSizeBelowModuleCount(t *testing.T) {
	text := "https://example.com/?q=" + strings.Repeat("x", 297)
	p := NewProducer(YeqownEncoder{}, zaptest.NewLogger(t))

	for _, shape := range []Shape{ShapeSquare, ShapeCircle, ShapeLiquid, ShapeVStripe} {
		t.Run(string(shape), func(t *testing.T) {
			req := NewRequest(text, DefaultColor)
			req.Size = 64
			req.Shape = shape

			img, err := p.Produce(context.Background(), req)

			assert.Nil(t, img)
			assert.True(t, errors.Is(err, apperror.ErrEncoding))
		})
	}

	t.Run("margin counts", func(t *testing.T) {
		m := NewMatrix(21)
		enc := new(MockEncoder)
		enc.On("Encode", "tight", LevelQuart).Return(m, nil)
		req := NewRequest("tight", DefaultColor)
		req.Size = 24
		req.Margin = 2

		_, err := NewProducer(enc, zaptest.NewLogger(t)).Produce(context.Background(), req)
		assert.True(t, errors.Is(err, apperror.ErrEncoding))

		req.Size = 25
		img, err := NewProducer(enc, zaptest.NewLogger(t)).Produce(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 25, 25), img.Bounds())
	})
}
