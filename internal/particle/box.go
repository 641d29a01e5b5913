package particle

import (
	"fmt"
	"math"
)

// Box is an orthorhombic periodic cell centered on the origin. It is a value
// type: the edge lengths and their reciprocals are computed together in the
// constructor, so no kernel can observe a box whose Inv fields disagree with
// its L fields.
type Box struct {
	L   [3]float64
	Inv [3]float64
}

// NewBox builds a box from three positive edge lengths.
func NewBox(lx, ly, lz float64) (Box, error) {
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return Box{}, fmt.Errorf("particle: box lengths must be positive, got (%g, %g, %g)", lx, ly, lz)
	}
	return Box{
		L:   [3]float64{lx, ly, lz},
		Inv: [3]float64{1 / lx, 1 / ly, 1 / lz},
	}, nil
}

// Cube builds a cubic box with edge length l.
func Cube(l float64) (Box, error) {
	return NewBox(l, l, l)
}

// Scaled returns the box dilated by the factor s, with reciprocals
// recomputed from the new lengths.
func (b Box) Scaled(s float64) (Box, error) {
	return NewBox(b.L[0]*s, b.L[1]*s, b.L[2]*s)
}

func (b Box) Volume() float64 {
	return b.L[0] * b.L[1] * b.L[2]
}

// Wrap maps x along dimension d into [-L/2, L/2) and returns the wrapped
// coordinate together with the integer number of box lengths removed.
// Coordinates exactly on the upper boundary wrap to the lower one.
func (b Box) Wrap(x float64, d int) (float64, int32) {
	shift := int32(math.Round(x * b.Inv[d]))
	return x - float64(shift)*b.L[d], shift
}

// MinImage returns the minimum-image separation along dimension d.
func (b Box) MinImage(dx float64, d int) float64 {
	return dx - b.L[d]*math.Round(dx*b.Inv[d])
}
