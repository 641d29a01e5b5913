package particle

// Store holds the device-resident per-particle arrays in struct-of-arrays
// layout. Kernels mutate positions, velocities, accelerations, and image
// counters in place; the arrays are allocated once and never resized.
//
// Pos and Vel carry a fourth slot per particle. For positions it holds the
// particle type id, for velocities it is unused; the integration kernels
// pass both through untouched.
type Store struct {
	Pos   [][4]float64
	Vel   [][4]float64
	Accel [][3]float64
	Mass  []float64
	Image [][3]int32

	n int
}

// NewStore allocates a store for n particles with unit masses.
func NewStore(n int) *Store {
	st := &Store{
		Pos:   make([][4]float64, n),
		Vel:   make([][4]float64, n),
		Accel: make([][3]float64, n),
		Mass:  make([]float64, n),
		Image: make([][3]int32, n),
		n:     n,
	}
	for i := range st.Mass {
		st.Mass[i] = 1.0
	}
	return st
}

func (s *Store) Count() int { return s.n }

// Momentum returns the total linear momentum of the store.
func (s *Store) Momentum() [3]float64 {
	var p [3]float64
	for i := 0; i < s.n; i++ {
		for d := 0; d < 3; d++ {
			p[d] += s.Mass[i] * s.Vel[i][d]
		}
	}
	return p
}

// KineticTwice returns twice the kinetic energy summed over all particles.
// Reduction kernels compute the same quantity blockwise on the device path;
// this is the host-side reference.
func (s *Store) KineticTwice() float64 {
	sum := 0.0
	for i := 0; i < s.n; i++ {
		v := s.Vel[i]
		sum += s.Mass[i] * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	return sum
}
