package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles   = 256
	DefaultDensity     = 0.8
	DefaultTemperature = 1.0
	DefaultPressure    = 1.0
	DefaultDt          = 0.005
	DefaultSteps       = 1000
	DefaultTauT        = 1.0
	DefaultTauP        = 1.2
	DefaultBlockSize   = 64
	DefaultCutoff      = 2.5
)

type Config struct {
	Particles   int     `yaml:"particles"`
	Density     float64 `yaml:"density"`
	Temperature float64 `yaml:"temperature"`
	Pressure    float64 `yaml:"pressure"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	TauT        float64 `yaml:"tau_t"`
	TauP        float64 `yaml:"tau_p"`
	BlockSize   int     `yaml:"block_size"`
	Checked     bool    `yaml:"checked"`
	Seed        int64   `yaml:"seed"`
	Sample      int     `yaml:"sample"`
	LJ          LJ      `yaml:"lj"`
}

type LJ struct {
	Epsilon float64 `yaml:"epsilon"`
	Sigma   float64 `yaml:"sigma"`
	Cutoff  float64 `yaml:"cutoff"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:   DefaultParticles,
		Density:     DefaultDensity,
		Temperature: DefaultTemperature,
		Pressure:    DefaultPressure,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		TauT:        DefaultTauT,
		TauP:        DefaultTauP,
		BlockSize:   DefaultBlockSize,
		Seed:        1,
		Sample:      10,
		LJ:          LJ{Epsilon: 1.0, Sigma: 1.0, Cutoff: DefaultCutoff},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	if c.Density <= 0 {
		return fmt.Errorf("config: density must be positive, got %g", c.Density)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("config: block_size must be a power of two, got %d", c.BlockSize)
	}
	if c.TauT <= 0 || c.TauP <= 0 {
		return fmt.Errorf("config: tau_t and tau_p must be positive")
	}
	if c.Sample <= 0 {
		return fmt.Errorf("config: sample must be positive, got %d", c.Sample)
	}
	if c.LJ.Cutoff > c.BoxEdge()/2 {
		return fmt.Errorf("config: cutoff %g exceeds half the box edge %g", c.LJ.Cutoff, c.BoxEdge()/2)
	}
	return nil
}

// BoxEdge returns the cubic box edge length implied by particle count and
// number density.
func (c *Config) BoxEdge() float64 {
	return math.Cbrt(float64(c.Particles) / c.Density)
}
