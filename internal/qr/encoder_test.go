package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixBounds(t *testing.T) {
	m := NewMatrix(3)
	m.Set(1, 2, true)
	m.Set(5, 5, true)

	assert.True(t, m.Get(1, 2))
	assert.False(t, m.Get(2, 1))
	assert.False(t, m.Get(-1, 0))
	assert.False(t, m.Get(5, 5))
}

func TestEncoders(t *testing.T) {
	for _, name := range []string{EncoderYeqown, EncoderSkip2} {
		t.Run(name, func(t *testing.T) {
			enc, err := NewEncoder(name)
			require.NoError(t, err)
			assert.Equal(t, name, enc.Name())

			m, err := enc.Encode("https://example.com", LevelQuart)
			require.NoError(t, err)

			// 19 bytes at level Q need version 2, 17+4*2 modules wide
			assert.Equal(t, 25, m.Size())
			assert.Zero(t, (m.Size()-17)%4)
			// top-left finder pattern: dark ring, light ring, dark core
			assert.True(t, m.Get(0, 0))
			assert.True(t, m.Get(6, 6))
			assert.False(t, m.Get(1, 1))
			assert.True(t, m.Get(3, 3))
			assert.False(t, m.Get(7, 7))
		})
	}
}

func TestEncodersRejectOversizedText(t *testing.T) {
	text := strings.Repeat("a", 8000)
	for _, enc := range []Encoder{YeqownEncoder{}, Skip2Encoder{}} {
		_, err := enc.Encode(text, LevelHighest)
		assert.Error(t, err, enc.Name())
	}
}

func TestNewEncoderUnknown(t *testing.T) {
	_, err := NewEncoder("zxing")
	assert.Error(t, err)

	enc, err := NewEncoder("")
	require.NoError(t, err)
	assert.Equal(t, EncoderYeqown, enc.Name())
}
