package kernel

import (
	"fmt"

	"github.com/cprakashj01/hoomd-blue/internal/device"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// The reduction kernels compute per-block partial sums of twice the
// kinetic energy (2K) and the virial (W). Each worker loads its particle's
// contribution into block-local scratch (zero when its index is out of
// range), the block collapses the scratch by pairwise halving, and the
// block total lands in one write-once slot of the output buffer. The
// halving tree requires a power-of-two block size.

// GroupTemperatureReduce writes one partial 2K sum per block, over group
// members only. partial2K must have at least g.NumBlocks slots.
func GroupTemperatureReduce(ln *device.Launcher, partial2K []float64, st *particle.Store, grp *particle.Group, g device.Grid) error {
	if !g.PowerOfTwo() {
		return fmt.Errorf("%w: got %d", device.ErrBlockSize, g.BlockSize)
	}
	if len(partial2K) < g.NumBlocks {
		return fmt.Errorf("device: partial sum buffer has %d slots, need %d", len(partial2K), g.NumBlocks)
	}

	n := grp.Size()
	vel, err := device.BindVec4("vel", st.Vel, st.Count())
	if err != nil {
		return err
	}
	mass, err := device.BindScalar("mass", st.Mass, st.Count())
	if err != nil {
		return err
	}
	members, err := device.BindIndex("group", grp.Members(), n)
	if err != nil {
		return err
	}

	return ln.LaunchBlocks("group_temperature_reduce", g, func(block int, scratch []float64) {
		base := block * g.BlockSize
		for t := 0; t < g.BlockSize; t++ {
			id := base + t
			if id < n {
				i := members.At(id)
				v := vel.At(i)
				scratch[t] = mass.At(i) * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
			} else {
				scratch[t] = 0
			}
		}
		partial2K[block] = treeReduce(scratch)
	})
}

// PressureReduce writes one partial virial sum and one partial 2K sum per
// block, over every particle in the store. The two reductions are separate
// passes over the same scratch buffer; the virial pass completes and its
// result is stored before the 2K pass reloads the scratch.
func PressureReduce(ln *device.Launcher, partial2K, partialW []float64, st *particle.Store, netVirial []float64, g device.Grid) error {
	if !g.PowerOfTwo() {
		return fmt.Errorf("%w: got %d", device.ErrBlockSize, g.BlockSize)
	}
	if len(partial2K) < g.NumBlocks || len(partialW) < g.NumBlocks {
		return fmt.Errorf("device: partial sum buffers have %d/%d slots, need %d",
			len(partial2K), len(partialW), g.NumBlocks)
	}

	n := st.Count()
	vel, err := device.BindVec4("vel", st.Vel, n)
	if err != nil {
		return err
	}
	mass, err := device.BindScalar("mass", st.Mass, n)
	if err != nil {
		return err
	}
	virial, err := device.BindScalar("net_virial", netVirial, n)
	if err != nil {
		return err
	}

	return ln.LaunchBlocks("pressure_reduce", g, func(block int, scratch []float64) {
		base := block * g.BlockSize

		for t := 0; t < g.BlockSize; t++ {
			if id := base + t; id < n {
				scratch[t] = virial.At(id)
			} else {
				scratch[t] = 0
			}
		}
		partialW[block] = treeReduce(scratch)

		for t := 0; t < g.BlockSize; t++ {
			if id := base + t; id < n {
				v := vel.At(id)
				scratch[t] = mass.At(id) * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
			} else {
				scratch[t] = 0
			}
		}
		partial2K[block] = treeReduce(scratch)
	})
}

// treeReduce collapses scratch by pairwise halving and returns slot zero.
// len(scratch) must be a power of two. The summation order matches the
// barrier-separated halving loop of the hardware original, so partial sums
// are reproducible for a fixed block size.
func treeReduce(scratch []float64) float64 {
	for offset := len(scratch) / 2; offset > 0; offset /= 2 {
		for t := 0; t < offset; t++ {
			scratch[t] += scratch[t+offset]
		}
	}
	return scratch[0]
}

// CombinePartials folds per-block partial sums into one scalar. The merge
// order is fixed: ascending block index, sequential. Callers relying on
// bit-reproducible observables must not re-order the buffer.
func CombinePartials(partials []float64) float64 {
	sum := 0.0
	for _, p := range partials {
		sum += p
	}
	return sum
}
