package force

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// ErrOverlap reports two particles at the same position, where the pair
// force diverges.
var ErrOverlap = errors.New("force: overlapping particles")

// Evaluator supplies per-particle net forces and virials for the step-two
// kick and the pressure reduction. Implementations must not mutate the
// position array.
type Evaluator interface {
	Compute(pos [][4]float64, box particle.Box) (net [][3]float64, virial []float64, err error)
}

// serialThreshold is the particle count below which the pair loop runs on
// one worker; the crossover mirrors the force backend's.
const serialThreshold = 64

// LennardJones evaluates truncated 12-6 Lennard-Jones pair forces under the
// minimum-image convention, accumulating half the pair virial on each
// member of a pair.
type LennardJones struct {
	Epsilon float64
	Sigma   float64
	Cutoff  float64

	workers int
	net     [][3]float64
	virial  []float64
}

func NewLennardJones(epsilon, sigma, cutoff float64) *LennardJones {
	return &LennardJones{
		Epsilon: epsilon,
		Sigma:   sigma,
		Cutoff:  cutoff,
		workers: runtime.NumCPU(),
	}
}

func (lj *LennardJones) ensureBuffers(n int) {
	if len(lj.net) != n {
		lj.net = make([][3]float64, n)
		lj.virial = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		lj.net[i] = [3]float64{}
		lj.virial[i] = 0
	}
}

// Compute returns net forces and per-particle virials for the given
// positions. The returned slices are reused across calls.
func (lj *LennardJones) Compute(pos [][4]float64, box particle.Box) ([][3]float64, []float64, error) {
	n := len(pos)
	lj.ensureBuffers(n)

	if n < serialThreshold || lj.workers <= 1 {
		if err := lj.pairSerial(pos, box); err != nil {
			return nil, nil, err
		}
		return lj.net, lj.virial, nil
	}
	if err := lj.pairParallel(pos, box); err != nil {
		return nil, nil, err
	}
	return lj.net, lj.virial, nil
}

// pairForce returns the scalar force/r coefficient and half the pair virial
// for squared separation r2. Zero beyond the cutoff.
func (lj *LennardJones) pairForce(r2 float64) (fOverR, halfVirial float64) {
	if r2 >= lj.Cutoff*lj.Cutoff {
		return 0, 0
	}
	s2 := lj.Sigma * lj.Sigma / r2
	s6 := s2 * s2 * s2
	// F(r)/r = 24*eps*(2*s^12 - s^6)/r^2
	fOverR = 24 * lj.Epsilon * (2*s6*s6 - s6) / r2
	// pair virial r.F = fOverR * r2, split evenly between the pair
	halfVirial = 0.5 * fOverR * r2
	return fOverR, halfVirial
}

func (lj *LennardJones) pairSerial(pos [][4]float64, box particle.Box) error {
	n := len(pos)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var dx [3]float64
			r2 := 0.0
			for d := 0; d < 3; d++ {
				dx[d] = box.MinImage(pos[i][d]-pos[j][d], d)
				r2 += dx[d] * dx[d]
			}
			if r2 == 0 {
				return fmt.Errorf("%w: indices %d and %d", ErrOverlap, i, j)
			}
			fOverR, w := lj.pairForce(r2)
			if fOverR == 0 {
				continue
			}
			for d := 0; d < 3; d++ {
				f := fOverR * dx[d]
				lj.net[i][d] += f
				lj.net[j][d] -= f
			}
			lj.virial[i] += w
			lj.virial[j] += w
		}
	}
	return nil
}

// pairParallel splits the outer loop across workers with per-worker
// accumulators, merged after the join. The full N^2 inner loop avoids
// write contention on j.
func (lj *LennardJones) pairParallel(pos [][4]float64, box particle.Box) error {
	n := len(pos)
	workers := lj.workers

	localNet := make([][][3]float64, workers)
	localW := make([][]float64, workers)
	workerErr := make([]error, workers)
	for w := 0; w < workers; w++ {
		localNet[w] = make([][3]float64, n)
		localW[w] = make([]float64, n)
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunk
			end := start + chunk
			if end > n {
				end = n
			}
			lnet := localNet[worker]
			lw := localW[worker]

			for i := start; i < end; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					var dx [3]float64
					r2 := 0.0
					for d := 0; d < 3; d++ {
						dx[d] = box.MinImage(pos[i][d]-pos[j][d], d)
						r2 += dx[d] * dx[d]
					}
					if r2 == 0 {
						workerErr[worker] = fmt.Errorf("%w: indices %d and %d", ErrOverlap, i, j)
						return
					}
					fOverR, w2 := lj.pairForce(r2)
					if fOverR == 0 {
						continue
					}
					for d := 0; d < 3; d++ {
						lnet[i][d] += fOverR * dx[d]
					}
					// the mirrored (j,i) visit credits j's half
					lw[i] += w2
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		if workerErr[w] != nil {
			return workerErr[w]
		}
	}

	for w := 0; w < workers; w++ {
		for i := 0; i < n; i++ {
			for d := 0; d < 3; d++ {
				lj.net[i][d] += localNet[w][i][d]
			}
			lj.virial[i] += localW[w][i]
		}
	}
	return nil
}
