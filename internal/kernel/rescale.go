package kernel

import (
	"math"

	"github.com/cprakashj01/hoomd-blue/internal/device"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// BoxRescale dilates the periodic cell by exp(eta*dt), scales every
// particle position by the same factor, and re-wraps each coordinate into
// the new cell under the minimum-image convention, crediting the removed
// box lengths to the image counters.
//
// The kernel runs over the whole store, not an integration group: under
// contraction a non-integrated particle would otherwise drift outside the
// cell. Wrapping uses the post-scale box lengths so image counters keep
// describing unwrapped trajectories. The scaled box is returned to the
// caller, which owns the authoritative box state from then on.
func BoxRescale(ln *device.Launcher, st *particle.Store, box particle.Box, g device.Grid, eta, dt float64) (particle.Box, error) {
	n := st.Count()

	pos, err := device.BindVec4("pos", st.Pos, n)
	if err != nil {
		return box, err
	}

	lenScale := math.Exp(eta * dt)
	scaled, err := box.Scaled(lenScale)
	if err != nil {
		return box, err
	}

	err = ln.Launch("box_rescale", g, func(id int) {
		if id >= n {
			return
		}
		p := pos.At(id)
		for d := 0; d < 3; d++ {
			x, shift := scaled.Wrap(p[d]*lenScale, d)
			st.Pos[id][d] = x
			st.Image[id][d] += shift
		}
	})
	if err != nil {
		return box, err
	}
	return scaled, nil
}
