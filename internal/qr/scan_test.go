package qr

import (
	"image"
	"image/draw"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

// scan decodes img after padding it with a white quiet zone, which the
// zero-margin output lacks and decoders expect.
func scan(t *testing.T, img image.Image) string {
	t.Helper()
	const pad = 64
	b := img.Bounds()
	padded := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad))
	draw.Draw(padded, padded.Bounds(), &image.Uniform{C: White}, image.Point{}, draw.Src)
	draw.Draw(padded, image.Rect(pad, pad, pad+b.Dx(), pad+b.Dy()), img, b.Min, draw.Src)

	bmp, err := gozxing.NewBinaryBitmapFromImage(padded)
	require.NoError(t, err)
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	require.NoError(t, err)
	return res.GetText()
}
