package metrics

import (
	"math"

	"github.com/cprakashj01/hoomd-blue/internal/thermo"
)

// Metric accumulates an observable over a run.
type Metric interface {
	Name() string
	Observe(res thermo.StepResult)
	Value() float64
	Reset()
}

// Temperature averages the instantaneous temperature over observed steps.
type Temperature struct {
	total   float64
	samples int
}

func NewTemperature() *Temperature { return &Temperature{} }

func (m *Temperature) Name() string { return "temperature" }

func (m *Temperature) Observe(res thermo.StepResult) {
	m.total += res.Temperature
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.total = 0
	m.samples = 0
}

// Pressure averages the instantaneous pressure over observed steps.
type Pressure struct {
	total   float64
	samples int
}

func NewPressure() *Pressure { return &Pressure{} }

func (m *Pressure) Name() string { return "pressure" }

func (m *Pressure) Observe(res thermo.StepResult) {
	m.total += res.Pressure
	m.samples++
}

func (m *Pressure) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Pressure) Reset() {
	m.total = 0
	m.samples = 0
}

// Density tracks the instantaneous number density implied by the box
// volume, reporting the maximum relative swing over the run. Useful for
// judging barostat settling.
type Density struct {
	particles int
	min, max  float64
	samples   int
}

func NewDensity(particles int) *Density {
	return &Density{particles: particles}
}

func (m *Density) Name() string { return "density_swing" }

func (m *Density) Observe(res thermo.StepResult) {
	rho := float64(m.particles) / res.Box.Volume()
	if m.samples == 0 {
		m.min, m.max = rho, rho
	} else {
		m.min = math.Min(m.min, rho)
		m.max = math.Max(m.max, rho)
	}
	m.samples++
}

func (m *Density) Value() float64 {
	if m.samples == 0 || m.min == 0 {
		return 0
	}
	return (m.max - m.min) / m.min
}

func (m *Density) Reset() {
	m.min, m.max = 0, 0
	m.samples = 0
}
