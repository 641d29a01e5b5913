package thermo

import (
	"context"
	"fmt"

	"github.com/cprakashj01/hoomd-blue/internal/device"
	"github.com/cprakashj01/hoomd-blue/internal/force"
	"github.com/cprakashj01/hoomd-blue/internal/kernel"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
)

// Config fixes the per-step parameters of the NPT integrator.
type Config struct {
	Dt        float64
	BlockSize int
	Targets   Targets
}

func (c Config) validate() error {
	if c.Dt < 0 {
		return fmt.Errorf("thermo: dt must be non-negative, got %g", c.Dt)
	}
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("thermo: block size must be a positive power of two, got %d", c.BlockSize)
	}
	if c.Targets.Temperature <= 0 || c.Targets.TauT <= 0 || c.Targets.TauP <= 0 {
		return fmt.Errorf("thermo: coupling targets must be positive")
	}
	return nil
}

// StepResult reports the observables of one completed step.
type StepResult struct {
	Step        int
	Time        float64
	Temperature float64
	Pressure    float64
	Kinetic2    float64
	Virial      float64
	Box         particle.Box
	Coupling    Coupling
}

// Integrator owns the authoritative box state and the per-block partial sum
// buffers, and sequences the five kernel entry points once per step:
// step one, force/virial evaluation, box rescale, step two, reductions,
// coupling update.
type Integrator struct {
	store  *particle.Store
	group  *particle.Group
	box    particle.Box
	ln     *device.Launcher
	forces force.Evaluator
	cfg    Config

	coup      Coupling
	groupGrid device.Grid
	allGrid   device.Grid

	// write-once per step, one slot per block; sized at construction
	partialGroup2K []float64
	partial2K      []float64
	partialW       []float64

	step int
}

func New(st *particle.Store, grp *particle.Group, box particle.Box, ln *device.Launcher, ev force.Evaluator, cfg Config) (*Integrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	groupGrid, err := device.GridFor(grp.Size(), cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	allGrid, err := device.GridFor(st.Count(), cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	return &Integrator{
		store:          st,
		group:          grp,
		box:            box,
		ln:             ln,
		forces:         ev,
		cfg:            cfg,
		groupGrid:      groupGrid,
		allGrid:        allGrid,
		partialGroup2K: make([]float64, groupGrid.NumBlocks),
		partial2K:      make([]float64, allGrid.NumBlocks),
		partialW:       make([]float64, allGrid.NumBlocks),
	}, nil
}

func (it *Integrator) Box() particle.Box      { return it.box }
func (it *Integrator) Coupling() Coupling     { return it.coup }
func (it *Integrator) Store() *particle.Store { return it.store }

// Step advances the system by one timestep and returns the post-step
// observables. The kernel ordering is load-bearing: forces are evaluated on
// step-one positions, the rescale completes before step two, and the
// reductions see post-update velocities.
func (it *Integrator) Step(ctx context.Context) (StepResult, error) {
	select {
	case <-ctx.Done():
		return StepResult{}, ctx.Err()
	default:
	}

	c := it.coup
	dt := it.cfg.Dt

	if err := kernel.StepOne(it.ln, it.store, it.group, it.groupGrid, c.Xi, c.Eta, dt); err != nil {
		return StepResult{}, fmt.Errorf("step one: %w", err)
	}

	net, virial, err := it.forces.Compute(it.store.Pos, it.box)
	if err != nil {
		return StepResult{}, fmt.Errorf("force evaluation: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}

	box, err := kernel.BoxRescale(it.ln, it.store, it.box, it.allGrid, c.Eta, dt)
	if err != nil {
		return StepResult{}, fmt.Errorf("box rescale: %w", err)
	}
	it.box = box

	if err := kernel.StepTwo(it.ln, it.store, it.group, net, it.groupGrid, c.Xi, c.Eta, dt); err != nil {
		return StepResult{}, fmt.Errorf("step two: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}

	if err := kernel.GroupTemperatureReduce(it.ln, it.partialGroup2K, it.store, it.group, it.groupGrid); err != nil {
		return StepResult{}, fmt.Errorf("temperature reduce: %w", err)
	}
	if err := kernel.PressureReduce(it.ln, it.partial2K, it.partialW, it.store, virial, it.allGrid); err != nil {
		return StepResult{}, fmt.Errorf("pressure reduce: %w", err)
	}

	group2K := kernel.CombinePartials(it.partialGroup2K)
	all2K := kernel.CombinePartials(it.partial2K)
	w := kernel.CombinePartials(it.partialW)

	nDOF := 3 * it.group.Size()
	tInst := 0.0
	if nDOF > 0 {
		tInst = group2K / float64(nDOF)
	}
	pInst := (all2K + w) / (3 * it.box.Volume())

	it.coup = UpdateCoupling(c, tInst, pInst, it.box.Volume(), 3*it.store.Count(), it.cfg.Targets, dt)
	it.step++

	return StepResult{
		Step:        it.step,
		Time:        float64(it.step) * dt,
		Temperature: tInst,
		Pressure:    pInst,
		Kinetic2:    all2K,
		Virial:      w,
		Box:         it.box,
		Coupling:    it.coup,
	}, nil
}

// Run advances steps timesteps, invoking onStep after each. Returning false
// from onStep stops the run early without error.
func (it *Integrator) Run(ctx context.Context, steps int, onStep func(StepResult) bool) error {
	for i := 0; i < steps; i++ {
		res, err := it.Step(ctx)
		if err != nil {
			return err
		}
		if onStep != nil && !onStep(res) {
			return nil
		}
	}
	return nil
}
