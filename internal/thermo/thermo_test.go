package thermo

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/cprakashj01/hoomd-blue/internal/device"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

type zeroForce struct{}

func (zeroForce) Compute(pos [][4]float64, box particle.Box) ([][3]float64, []float64, error) {
	return make([][3]float64, len(pos)), make([]float64, len(pos)), nil
}

func testConfig() Config {
	return Config{
		Dt:        0.01,
		BlockSize: 4,
		Targets:   Targets{Temperature: 1.0, Pressure: 1.0, TauT: 1.0, TauP: 1.0},
	}
}

func TestUpdateCouplingSigns(t *testing.T) {
	g := NewWithT(t)
	tg := Targets{Temperature: 1.0, Pressure: 1.0, TauT: 0.5, TauP: 0.5}

	// hotter than target: thermostat friction must grow
	c := UpdateCoupling(Coupling{}, 2.0, 1.0, 100, 300, tg, 0.01)
	g.Expect(c.Xi).To(BeNumerically(">", 0))
	g.Expect(c.Eta).To(BeNumerically("==", 0))

	// under target pressure: barostat must contract
	c = UpdateCoupling(Coupling{}, 1.0, 0.5, 100, 300, tg, 0.01)
	g.Expect(c.Eta).To(BeNumerically("<", 0))
	g.Expect(c.Xi).To(BeNumerically("==", 0))
}

func TestConfigValidation(t *testing.T) {
	g := NewWithT(t)
	st := particle.NewStore(4)
	box, _ := particle.Cube(4)
	ln := device.NewLauncher(device.Options{})

	cfg := testConfig()
	cfg.BlockSize = 6
	_, err := New(st, particle.All(4), box, ln, zeroForce{}, cfg)
	g.Expect(err).To(HaveOccurred(), "non power of two block size")

	cfg = testConfig()
	cfg.Dt = -0.1
	_, err = New(st, particle.All(4), box, ln, zeroForce{}, cfg)
	g.Expect(err).To(HaveOccurred(), "negative dt")

	cfg = testConfig()
	cfg.Targets.TauP = 0
	_, err = New(st, particle.All(4), box, ln, zeroForce{}, cfg)
	g.Expect(err).To(HaveOccurred(), "zero relaxation time")
}

// A single force-free particle whose instantaneous temperature and pressure
// equal the targets exactly must drift ballistically: the coupling stays
// zero and the box never moves.
func TestStepBallisticWhenOnTarget(t *testing.T) {
	g := NewWithT(t)

	st := particle.NewStore(1)
	st.Mass[0] = 3
	st.Vel[0] = [4]float64{1, 1, 1, 0}
	box, err := particle.Cube(2)
	g.Expect(err).NotTo(HaveOccurred())

	// 2K = 9, T = 2K/3 = 3; P = 2K/(3V) = 9/24
	cfg := Config{
		Dt:        0.01,
		BlockSize: 4,
		Targets:   Targets{Temperature: 3.0, Pressure: 0.375, TauT: 1.0, TauP: 1.0},
	}
	ln := device.NewLauncher(device.Options{Checked: true})
	it, err := New(st, particle.All(1), box, ln, zeroForce{}, cfg)
	g.Expect(err).NotTo(HaveOccurred())

	const steps = 10
	var last StepResult
	err = it.Run(context.Background(), steps, func(res StepResult) bool {
		last = res
		return true
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(last.Step).To(Equal(steps))
	g.Expect(last.Time).To(BeNumerically("~", 0.1, 1e-12))
	g.Expect(last.Temperature).To(BeNumerically("~", 3.0, 1e-12))
	g.Expect(last.Pressure).To(BeNumerically("~", 0.375, 1e-12))
	g.Expect(last.Coupling.Xi).To(BeZero())
	g.Expect(last.Coupling.Eta).To(BeZero())
	g.Expect(last.Box.Volume()).To(BeNumerically("~", 8.0, 1e-12))

	for d := 0; d < 3; d++ {
		g.Expect(st.Pos[0][d]).To(BeNumerically("~", 0.1, 1e-12), "ballistic drift")
	}
}

// Starting hot, the thermostat friction must engage and pull the kinetic
// temperature toward the target.
func TestThermostatCoolsHotSystem(t *testing.T) {
	g := NewWithT(t)

	const n = 8
	st := particle.NewStore(n)
	for i := 0; i < n; i++ {
		sign := 1.0
		if i%2 == 1 {
			sign = -1 // zero net momentum
		}
		st.Vel[i] = [4]float64{2 * sign, 2 * sign, 2 * sign, 0}
	}
	box, err := particle.Cube(10)
	g.Expect(err).NotTo(HaveOccurred())

	cfg := Config{
		Dt:        0.005,
		BlockSize: 8,
		Targets:   Targets{Temperature: 1.0, Pressure: 0.05, TauT: 0.5, TauP: 5.0},
	}
	ln := device.NewLauncher(device.Options{})
	it, err := New(st, particle.All(n), box, ln, zeroForce{}, cfg)
	g.Expect(err).NotTo(HaveOccurred())

	first, err := it.Step(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(first.Temperature).To(BeNumerically(">", 3.0), "starts hot")
	g.Expect(first.Coupling.Xi).To(BeNumerically(">", 0), "friction engages")

	// the coupling oscillates around the target, so judge cooling by the
	// run mean and minimum rather than the final instant
	sum, min := 0.0, first.Temperature
	const steps = 1000
	err = it.Run(context.Background(), steps, func(res StepResult) bool {
		sum += res.Temperature
		if res.Temperature < min {
			min = res.Temperature
		}
		return true
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sum/steps).To(BeNumerically("<", 3.9), "mean temperature falls")
	g.Expect(min).To(BeNumerically("<", 3.0), "approaches the target")
}

func TestStepHonorsContextCancellation(t *testing.T) {
	g := NewWithT(t)

	st := particle.NewStore(2)
	box, _ := particle.Cube(4)
	ln := device.NewLauncher(device.Options{})
	it, err := New(st, particle.All(2), box, ln, zeroForce{}, testConfig())
	g.Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = it.Step(ctx)
	g.Expect(err).To(MatchError(context.Canceled))
}

// cancellingForce cancels its context the first time it runs, standing in
// for a force backend whose caller gives up mid-step.
type cancellingForce struct {
	cancel context.CancelFunc
}

func (f cancellingForce) Compute(pos [][4]float64, box particle.Box) ([][3]float64, []float64, error) {
	f.cancel()
	return make([][3]float64, len(pos)), make([]float64, len(pos)), nil
}

// Cancellation arriving while a step is in flight must stop it at the next
// kernel boundary instead of running the remaining kernels.
func TestStepChecksContextBetweenKernels(t *testing.T) {
	g := NewWithT(t)

	st := particle.NewStore(2)
	st.Vel[0] = [4]float64{1, 0, 0, 0}
	st.Vel[1] = [4]float64{-1, 0, 0, 0}
	box, _ := particle.Cube(4)
	ln := device.NewLauncher(device.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	it, err := New(st, particle.All(2), box, ln, cancellingForce{cancel: cancel}, testConfig())
	g.Expect(err).NotTo(HaveOccurred())

	_, err = it.Step(ctx)
	g.Expect(err).To(MatchError(context.Canceled))
	g.Expect(it.Box()).To(Equal(box), "rescale must not run after cancellation")
}

// The rescale kernel's scaled box must become the integrator's
// authoritative box: with a nonzero barostat friction the reported box
// changes every step and matches exp(eta*dt) cumulatively.
func TestBoxOwnershipFollowsRescale(t *testing.T) {
	g := NewWithT(t)

	st := particle.NewStore(2)
	st.Vel[0] = [4]float64{3, 0, 0, 0}
	st.Vel[1] = [4]float64{-3, 0, 0, 0}
	box, _ := particle.Cube(5)

	// far from pressure target so eta moves immediately
	cfg := Config{
		Dt:        0.01,
		BlockSize: 2,
		Targets:   Targets{Temperature: 3.0, Pressure: 50.0, TauT: 5.0, TauP: 0.2},
	}
	ln := device.NewLauncher(device.Options{})
	it, err := New(st, particle.All(2), box, ln, zeroForce{}, cfg)
	g.Expect(err).NotTo(HaveOccurred())

	res1, err := it.Step(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	res2, err := it.Step(context.Background())
	g.Expect(err).NotTo(HaveOccurred())

	// pressure is far below target, so eta goes negative and the second
	// step's box contracts relative to the first
	g.Expect(res2.Coupling.Eta).To(BeNumerically("<", 0))
	g.Expect(res2.Box.Volume()).To(BeNumerically("<", res1.Box.Volume()))
	g.Expect(it.Box()).To(Equal(res2.Box), "integrator owns the returned box")
}
