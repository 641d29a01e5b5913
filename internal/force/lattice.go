package force

import (
	"math"
	"math/rand"

	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// SeedLattice places the store's particles on a simple cubic lattice
// filling the box and draws velocities from a Maxwell-Boltzmann
// distribution at temperature t, with the center-of-mass drift removed.
func SeedLattice(st *particle.Store, box particle.Box, t float64, seed int64) {
	n := st.Count()
	rng := rand.New(rand.NewSource(seed))

	side := int(math.Ceil(math.Cbrt(float64(n))))
	cell := [3]float64{box.L[0] / float64(side), box.L[1] / float64(side), box.L[2] / float64(side)}

	i := 0
	for ix := 0; ix < side && i < n; ix++ {
		for iy := 0; iy < side && i < n; iy++ {
			for iz := 0; iz < side && i < n; iz++ {
				st.Pos[i][0] = (float64(ix)+0.5)*cell[0] - box.L[0]/2
				st.Pos[i][1] = (float64(iy)+0.5)*cell[1] - box.L[1]/2
				st.Pos[i][2] = (float64(iz)+0.5)*cell[2] - box.L[2]/2
				i++
			}
		}
	}

	for i := 0; i < n; i++ {
		sigma := math.Sqrt(t / st.Mass[i])
		for d := 0; d < 3; d++ {
			st.Vel[i][d] = sigma * rng.NormFloat64()
		}
	}

	// remove center-of-mass drift
	var p [3]float64
	var m float64
	for i := 0; i < n; i++ {
		m += st.Mass[i]
		for d := 0; d < 3; d++ {
			p[d] += st.Mass[i] * st.Vel[i][d]
		}
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 3; d++ {
			st.Vel[i][d] -= p[d] / m
		}
	}
}
