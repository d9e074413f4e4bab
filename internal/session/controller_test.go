package session

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/compositor"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req qr.Request, logo *compositor.Logo) (*image.RGBA, error) {
	args := m.Called(ctx, req, logo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*image.RGBA), args.Error(1)
}

var green = color.RGBA{G: 0x80, A: 0xff}

func bitmap() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 8, 8)) }

func withText(text string, c color.RGBA) interface{} {
	return mock.MatchedBy(func(r qr.Request) bool { return r.Text == text && r.Color == c })
}

func newTestController(t *testing.T, gen Generator, decode LogoDecoder) *Controller {
	return NewController("sess-1", gen, decode, qr.DefaultColor, zaptest.NewLogger(t))
}

func TestGenerateStoresResult(t *testing.T) {
	gen := new(MockGenerator)
	out := bitmap()
	gen.On("Generate", mock.Anything, withText("https://example.com", qr.DefaultColor), (*compositor.Logo)(nil)).Return(out, nil)
	c := newTestController(t, gen, nil)

	img, err := c.OnGenerateRequested(context.Background(), "https://example.com", qr.DefaultColor)

	require.NoError(t, err)
	assert.Same(t, out, img)
	st := c.Snapshot()
	assert.Same(t, out, st.Result)
	assert.Equal(t, 1, st.Version)
	assert.True(t, st.HasResult())
	assert.False(t, st.GeneratedAt.IsZero())
}

func TestGenerateEmptyTextKeepsPreviousResult(t *testing.T) {
	gen := new(MockGenerator)
	first := bitmap()
	gen.On("Generate", mock.Anything, withText("a", qr.DefaultColor), mock.Anything).Return(first, nil).Once()
	c := newTestController(t, gen, nil)
	_, err := c.OnGenerateRequested(context.Background(), "a", qr.DefaultColor)
	require.NoError(t, err)

	img, err := c.OnGenerateRequested(context.Background(), "", qr.DefaultColor)

	assert.Nil(t, img)
	assert.True(t, errors.Is(err, apperror.ErrEmptyPayload))
	assert.Same(t, first, c.Snapshot().Result)
	assert.Equal(t, 1, c.Snapshot().Version)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestGenerateFailureKeepsPreviousResult(t *testing.T) {
	gen := new(MockGenerator)
	first := bitmap()
	gen.On("Generate", mock.Anything, withText("ok", qr.DefaultColor), mock.Anything).Return(first, nil)
	gen.On("Generate", mock.Anything, withText("too long", qr.DefaultColor), mock.Anything).
		Return(nil, apperror.Wrapf(apperror.ErrEncoding, "capacity"))
	c := newTestController(t, gen, nil)

	_, err := c.OnGenerateRequested(context.Background(), "ok", qr.DefaultColor)
	require.NoError(t, err)
	_, err = c.OnGenerateRequested(context.Background(), "too long", qr.DefaultColor)

	assert.True(t, errors.Is(err, apperror.ErrEncoding))
	assert.Same(t, first, c.Snapshot().Result)
}

func TestColorChangeRegeneratesWithLogo(t *testing.T) {
	gen := new(MockGenerator)
	logo := &compositor.Logo{Image: bitmap(), Width: 8, Height: 8}
	decode := func([]byte) (*compositor.Logo, error) { return logo, nil }
	first, second := bitmap(), bitmap()
	gen.On("Generate", mock.Anything, withText("https://example.com", qr.DefaultColor), logo).Return(first, nil)
	gen.On("Generate", mock.Anything, withText("https://example.com", green), logo).Return(second, nil)
	c := newTestController(t, gen, decode)

	_, err := c.OnLogoSelected([]byte("logo"))
	require.NoError(t, err)
	_, err = c.OnGenerateRequested(context.Background(), "https://example.com", qr.DefaultColor)
	require.NoError(t, err)

	regenerated, err := c.OnColorChanged(context.Background(), green)

	require.NoError(t, err)
	assert.True(t, regenerated)
	assert.Same(t, second, c.Snapshot().Result)
	assert.Equal(t, 2, c.Snapshot().Version)
	gen.AssertExpectations(t)
}

func TestColorChangeWithoutResultDoesNotGenerate(t *testing.T) {
	gen := new(MockGenerator)
	c := newTestController(t, gen, nil)
	c.OnTextChanged("typed but never generated")

	regenerated, err := c.OnColorChanged(context.Background(), green)

	require.NoError(t, err)
	assert.False(t, regenerated)
	assert.Equal(t, green, c.Snapshot().Color)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestColorChangeUsesCurrentText(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, withText("first", qr.DefaultColor), mock.Anything).Return(bitmap(), nil)
	gen.On("Generate", mock.Anything, withText("edited", green), mock.Anything).Return(bitmap(), nil)
	c := newTestController(t, gen, nil)

	_, err := c.OnGenerateRequested(context.Background(), "first", qr.DefaultColor)
	require.NoError(t, err)
	c.OnTextChanged("edited")
	assert.Equal(t, 1, c.Snapshot().Version, "text edits alone never regenerate")

	regenerated, err := c.OnColorChanged(context.Background(), green)
	require.NoError(t, err)
	assert.True(t, regenerated)
	gen.AssertExpectations(t)
}

func TestColorChangeWithClearedText(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(bitmap(), nil).Once()
	c := newTestController(t, gen, nil)
	_, err := c.OnGenerateRequested(context.Background(), "first", qr.DefaultColor)
	require.NoError(t, err)
	c.OnTextChanged("")

	regenerated, err := c.OnColorChanged(context.Background(), green)

	require.NoError(t, err)
	assert.False(t, regenerated)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestLogoChangeDoesNotRegenerate(t *testing.T) {
	gen := new(MockGenerator)
	first := bitmap()
	gen.On("Generate", mock.Anything, mock.Anything, (*compositor.Logo)(nil)).Return(first, nil).Once()
	logo := &compositor.Logo{Image: bitmap(), Width: 8, Height: 8}
	c := newTestController(t, gen, func([]byte) (*compositor.Logo, error) { return logo, nil })
	_, err := c.OnGenerateRequested(context.Background(), "https://example.com", qr.DefaultColor)
	require.NoError(t, err)

	got, err := c.OnLogoSelected([]byte("png"))

	require.NoError(t, err)
	assert.Same(t, logo, got)
	st := c.Snapshot()
	assert.Same(t, first, st.Result)
	assert.Same(t, logo, st.Logo)
	assert.Equal(t, 1, st.LogoVersion)
	assert.Equal(t, 1, st.Version)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestLogoDecodeFailureKeepsState(t *testing.T) {
	gen := new(MockGenerator)
	oldLogo := &compositor.Logo{Image: bitmap(), Width: 8, Height: 8}
	calls := 0
	decode := func([]byte) (*compositor.Logo, error) {
		calls++
		if calls == 1 {
			return oldLogo, nil
		}
		return nil, apperror.Wrapf(apperror.ErrImageDecode, "corrupt")
	}
	c := newTestController(t, gen, decode)
	_, err := c.OnLogoSelected([]byte("good"))
	require.NoError(t, err)

	_, err = c.OnLogoSelected([]byte("bad"))

	assert.True(t, errors.Is(err, apperror.ErrImageDecode))
	assert.Same(t, oldLogo, c.Snapshot().Logo)
}

func TestExport(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(bitmap(), nil)
	c := newTestController(t, gen, nil)

	data, version, err := c.Export()
	assert.Nil(t, data)
	assert.Zero(t, version)
	assert.True(t, apperror.IsSilent(err))

	_, err = c.OnGenerateRequested(context.Background(), "x", qr.DefaultColor)
	require.NoError(t, err)
	data, version, err = c.Export()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestConcurrentTriggersAreSerialized(t *testing.T) {
	gen := new(MockGenerator)
	var inFlight, maxInFlight int
	var mu sync.Mutex
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
	}).Return(bitmap(), nil)
	c := newTestController(t, gen, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.OnGenerateRequested(context.Background(), "x", qr.DefaultColor)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
	assert.Equal(t, 20, c.Snapshot().Version)
}

func TestDefaultDecoderRejectsGarbage(t *testing.T) {
	c := newTestController(t, new(MockGenerator), nil)

	_, err := c.OnLogoSelected([]byte("not an image"))
	assert.True(t, errors.Is(err, apperror.ErrImageDecode))
	assert.Nil(t, c.Snapshot().Logo)
}
