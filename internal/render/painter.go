//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// SlicePainter uploads one z-slice of a cube into an image and draws it.
type SlicePainter struct {
	n   int
	img *ebiten.Image
	buf []byte
}

// NewSlicePainter allocates a painter for slices of an n×n×n cube.
func NewSlicePainter(n int) *SlicePainter {
	return &SlicePainter{n: n, img: ebiten.NewImage(n, n), buf: make([]byte, 4*n*n)}
}

// Blit renders slice z of vol scaled by scale at the origin of dst.
func (p *SlicePainter) Blit(dst *ebiten.Image, vol Volume, z int, palette []color.RGBA, scale int) {
	if vol.Size() != p.n {
		return
	}
	fillSliceRGBA(p.buf, vol, z, palette)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}

// Size returns the edge length the painter was built for.
func (p *SlicePainter) Size() int { return p.n }
