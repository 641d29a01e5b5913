package config

var Presets = map[string]*Config{
	"equilibrate": {
		Particles: 256, Density: 0.8, Temperature: 1.0, Pressure: 1.0,
		Dt: 0.005, Steps: 5000, TauT: 0.5, TauP: 1.0, BlockSize: 64,
		Seed: 1, Sample: 20, LJ: LJ{Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5},
	},
	"compress": {
		Particles: 256, Density: 0.6, Temperature: 1.0, Pressure: 4.0,
		Dt: 0.002, Steps: 10000, TauT: 0.5, TauP: 1.5, BlockSize: 64,
		Seed: 1, Sample: 50, LJ: LJ{Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5},
	},
	"hot": {
		Particles: 512, Density: 0.7, Temperature: 2.5, Pressure: 1.5,
		Dt: 0.002, Steps: 8000, TauT: 0.3, TauP: 1.0, BlockSize: 128,
		Seed: 7, Sample: 20, LJ: LJ{Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5},
	},
	"small": {
		Particles: 64, Density: 0.5, Temperature: 1.2, Pressure: 0.8,
		Dt: 0.005, Steps: 2000, TauT: 0.5, TauP: 1.0, BlockSize: 32,
		Seed: 1, Sample: 10, LJ: LJ{Epsilon: 1.0, Sigma: 1.0, Cutoff: 2.5},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
