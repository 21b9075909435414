package render

import "image/color"

// Volume is the read-only view of a cube that the renderer samples.
type Volume interface {
	Size() int
	At(x, y, z int) (uint8, bool)
}

// StatePalette returns maxState+1 colors: transparent black for dead cells,
// white for stable cells and a fade towards amber for decaying states.
func StatePalette(maxState int) []color.RGBA {
	if maxState < 1 {
		maxState = 1
	}
	palette := make([]color.RGBA, maxState+1)
	palette[0] = color.RGBA{}
	palette[1] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	young := color.RGBA{R: 255, G: 140, B: 30, A: 255}
	for s := 2; s <= maxState; s++ {
		t := float64(s-1) / float64(maxState-1)
		palette[s] = lerp(palette[1], young, t)
	}
	return palette
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x)*(1-t) + float64(y)*t + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// fillSliceRGBA converts the z-slice of vol into RGBA pixels in buf, laid out
// row-major with x across and y down. States beyond the palette use its last
// entry. buf must hold 4*N*N bytes.
func fillSliceRGBA(buf []byte, vol Volume, z int, palette []color.RGBA) {
	n := vol.Size()
	last := len(palette) - 1
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			base := (y*n + x) * 4
			v, ok := vol.At(x, y, z)
			if !ok || last < 0 {
				buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
				continue
			}
			idx := int(v)
			if idx > last {
				idx = last
			}
			col := palette[idx]
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}
