package kernel

import (
	"math"

	"github.com/cprakashj01/hoomd-blue/internal/device"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// scaleFactors derives the per-step exponential scalings from the
// thermostat friction xi, the barostat friction eta, and the timestep.
// With xi = eta = 0 both factors are exactly 1 and the step kernels reduce
// to plain velocity Verlet.
func scaleFactors(xi, eta, dt float64) (velScale, posScale float64) {
	velScale = math.Exp(-(xi + eta) * dt / 4)
	posScale = math.Exp(eta * dt / 2)
	return velScale, posScale
}

// StepOne advances every group member by a velocity half-step and a full
// position step under the Nose-Hoover coupling:
//
//	v' = v*velScale^2 + (dt/2)*velScale*a
//	p' = p + v'*dt/posScale
//
// The fourth position and velocity slots pass through unchanged. Inputs are
// read through pre-launch snapshots; writes go directly to the store. One
// worker per group member, so the group uniqueness invariant makes every
// write disjoint.
func StepOne(ln *device.Launcher, st *particle.Store, grp *particle.Group, g device.Grid, xi, eta, dt float64) error {
	n := grp.Size()

	pos, err := device.BindVec4("pos", st.Pos, st.Count())
	if err != nil {
		return err
	}
	vel, err := device.BindVec4("vel", st.Vel, st.Count())
	if err != nil {
		return err
	}
	accel, err := device.BindVec3("accel", st.Accel, st.Count())
	if err != nil {
		return err
	}
	members, err := device.BindIndex("group", grp.Members(), n)
	if err != nil {
		return err
	}

	velScale, posScale := scaleFactors(xi, eta, dt)
	vsq := velScale * velScale
	halfKick := 0.5 * dt * velScale
	drift := dt / posScale

	return ln.Launch("npt_step_one", g, func(id int) {
		if id >= n {
			return
		}
		i := members.At(id)
		p := pos.At(i)
		v := vel.At(i)
		a := accel.At(i)

		for d := 0; d < 3; d++ {
			v[d] = v[d]*vsq + halfKick*a[d]
			p[d] += v[d] * drift
		}

		st.Vel[i][0], st.Vel[i][1], st.Vel[i][2] = v[0], v[1], v[2]
		st.Pos[i][0], st.Pos[i][1], st.Pos[i][2] = p[0], p[1], p[2]
	})
}

// StepTwo completes the velocity half-step from freshly computed net
// forces. Acceleration is recomputed as F/m and written back so the next
// step's StepOne sees it. Positions are untouched in this phase.
func StepTwo(ln *device.Launcher, st *particle.Store, grp *particle.Group, netForce [][3]float64, g device.Grid, xi, eta, dt float64) error {
	n := grp.Size()

	vel, err := device.BindVec4("vel", st.Vel, st.Count())
	if err != nil {
		return err
	}
	force, err := device.BindVec3("net_force", netForce, st.Count())
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

	velScale, _ := scaleFactors(xi, eta, dt)
	vsq := velScale * velScale
	halfKick := 0.5 * dt * velScale

	return ln.Launch("npt_step_two", g, func(id int) {
		if id >= n {
			return
		}
		i := members.At(id)
		v := vel.At(i)
		f := force.At(i)
		minv := 1.0 / mass.At(i)

		for d := 0; d < 3; d++ {
			a := f[d] * minv
			v[d] = v[d]*vsq + halfKick*a
			st.Accel[i][d] = a
		}
		st.Vel[i][0], st.Vel[i][1], st.Vel[i][2] = v[0], v[1], v[2]
	})
}
