package qr

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// circleFill is the share of a module's cell covered by a round module.
const circleFill = 0.9

// moduleEdges returns the pixel boundaries of n cells spread over size
// pixels. Cell i covers [edges[i], edges[i+1]).
func moduleEdges(n, size int) []int {
	edges := make([]int, n+1)
	for i := 0; i <= n; i++ {
		edges[i] = i * size / n
	}
	return edges
}

// checkFits fails when size pixels cannot give each of n cells at least one
// pixel. Below that, moduleEdges yields empty cells and modules disappear.
func checkFits(n, size int) error {
	if size < n {
		return errors.Errorf("%d pixels cannot hold %d modules", size, n)
	}
	return nil
}

// rasterize draws m at exactly req.Size×req.Size pixels, surrounded by
// req.Margin clear modules.
func rasterize(m *Matrix, req Request) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, req.Size, req.Size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: req.Background}, image.Point{}, draw.Src)

	n := m.Size() + 2*req.Margin
	edges := moduleEdges(n, req.Size)

	if req.Shape == ShapeCircle {
		dc := gg.NewContextForRGBA(img)
		for y := 0; y < m.Size(); y++ {
			for x := 0; x < m.Size(); x++ {
				if !m.Get(x, y) {
					continue
				}
				x0, x1 := edges[x+req.Margin], edges[x+req.Margin+1]
				y0, y1 := edges[y+req.Margin], edges[y+req.Margin+1]
				w := float64(x1 - x0)
				dc.DrawCircle(float64(x0)+w/2, float64(y0)+float64(y1-y0)/2, w/2*circleFill)
			}
		}
		dc.SetColor(req.Color)
		dc.Fill()
		return img
	}

	fg := &image.Uniform{C: req.Color}
	for y := 0; y < m.Size(); y++ {
		for x := 0; x < m.Size(); x++ {
			if !m.Get(x, y) {
				continue
			}
			r := image.Rect(edges[x+req.Margin], edges[y+req.Margin], edges[x+req.Margin+1], edges[y+req.Margin+1])
			draw.Draw(img, r, fg, image.Point{}, draw.Src)
		}
	}
	return img
}
