package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/cprakashj01/hoomd-blue/internal/config"
	"github.com/cprakashj01/hoomd-blue/internal/device"
	"github.com/cprakashj01/hoomd-blue/internal/force"
	"github.com/cprakashj01/hoomd-blue/internal/metrics"
	"github.com/cprakashj01/hoomd-blue/internal/particle"
	"github.com/cprakashj01/hoomd-blue/internal/storage"
	"github.com/cprakashj01/hoomd-blue/internal/thermo"
	"github.com/cprakashj01/hoomd-blue/internal/tui"
)

var (
	dataDir     string
	particles   int
	density     float64
	temperature float64
	pressure    float64
	dt          float64
	steps       int
	tauT        float64
	tauP        float64
	blockSize   int
	checked     bool
	seed        int64
	sample      int
	trajectory  bool
	configFile  string
	preset      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nptmd",
		Short: "Nose-Hoover NPT molecular dynamics",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nptmd", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an NPT simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&trajectory, "trajectory", false, "write compressed trajectory frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot temperature and pressure for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live temperature/pressure view",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "number density")
	cmd.Flags().Float64Var(&temperature, "temp", config.DefaultTemperature, "target temperature")
	cmd.Flags().Float64Var(&pressure, "press", config.DefaultPressure, "target pressure")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&tauT, "tau-t", config.DefaultTauT, "thermostat relaxation time")
	cmd.Flags().Float64Var(&tauP, "tau-p", config.DefaultTauP, "barostat relaxation time")
	cmd.Flags().IntVar(&blockSize, "block", config.DefaultBlockSize, "launch block size (power of two)")
	cmd.Flags().BoolVar(&checked, "checked", false, "synchronous error checking after every launch")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&sample, "sample", 10, "record every k-th step")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file, and command-line flags; flags win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("density") {
		cfg.Density = density
	}
	if cmd.Flags().Changed("temp") {
		cfg.Temperature = temperature
	}
	if cmd.Flags().Changed("press") {
		cfg.Pressure = pressure
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("tau-t") {
		cfg.TauT = tauT
	}
	if cmd.Flags().Changed("tau-p") {
		cfg.TauP = tauP
	}
	if cmd.Flags().Changed("block") {
		cfg.BlockSize = blockSize
	}
	if cmd.Flags().Changed("checked") {
		cfg.Checked = checked
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("sample") {
		cfg.Sample = sample
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildIntegrator assembles the particle store, box, force evaluator, and
// launcher from a validated config.
func buildIntegrator(cfg *config.Config) (*thermo.Integrator, error) {
	st := particle.NewStore(cfg.Particles)
	box, err := particle.Cube(cfg.BoxEdge())
	if err != nil {
		return nil, err
	}
	force.SeedLattice(st, box, cfg.Temperature, cfg.Seed)

	grp := particle.All(cfg.Particles)
	ln := device.NewLauncher(device.Options{Checked: cfg.Checked})
	lj := force.NewLennardJones(cfg.LJ.Epsilon, cfg.LJ.Sigma, cfg.LJ.Cutoff)

	return thermo.New(st, grp, box, ln, lj, thermo.Config{
		Dt:        cfg.Dt,
		BlockSize: cfg.BlockSize,
		Targets: thermo.Targets{
			Temperature: cfg.Temperature,
			Pressure:    cfg.Pressure,
			TauT:        cfg.TauT,
			TauP:        cfg.TauP,
		},
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	it, err := buildIntegrator(cfg)
	if err != nil {
		return err
	}

	var trajFile *os.File
	if trajectory {
		trajFile, err = os.Create(filepath.Join(dataDir, fmt.Sprintf("traj_%d.npt", time.Now().Unix())))
		if err != nil {
			return err
		}
		defer trajFile.Close()
	}

	tempMetric := metrics.NewTemperature()
	pressMetric := metrics.NewPressure()
	densMetric := metrics.NewDensity(cfg.Particles)

	series := make([]storage.Sample, 0, cfg.Steps/cfg.Sample+1)
	tempSeries := make([]float64, 0, cfg.Steps/cfg.Sample+1)

	fmt.Printf("running %d particles for %d steps...\n", cfg.Particles, cfg.Steps)
	start := time.Now()

	var stepErr error
	err = it.Run(context.Background(), cfg.Steps, func(res thermo.StepResult) bool {
		tempMetric.Observe(res)
		pressMetric.Observe(res)
		densMetric.Observe(res)

		if res.Step%cfg.Sample == 0 {
			series = append(series, storage.Sample{
				Time:        res.Time,
				Temperature: res.Temperature,
				Pressure:    res.Pressure,
				Volume:      res.Box.Volume(),
			})
			tempSeries = append(tempSeries, res.Temperature)
			if trajFile != nil {
				if werr := storage.WriteFrame(trajFile, it.Store(), res.Box, int64(res.Step)); werr != nil {
					stepErr = werr
					return false
				}
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	if stepErr != nil {
		return stepErr
	}

	elapsed := time.Since(start)

	summary := metrics.Summarize(tempSeries)
	runID, err := st.Save(storage.RunMetadata{
		Particles:   cfg.Particles,
		Steps:       cfg.Steps,
		Dt:          cfg.Dt,
		Temperature: cfg.Temperature,
		Pressure:    cfg.Pressure,
		Seed:        cfg.Seed,
		Metrics: map[string]float64{
			tempMetric.Name():  tempMetric.Value(),
			pressMetric.Name(): pressMetric.Value(),
			densMetric.Name():  densMetric.Value(),
			"temperature_std":  summary.StdDev,
		},
	}, series)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("mean temperature: %.4f (target %.4f)\n", tempMetric.Value(), cfg.Temperature)
	fmt.Printf("mean pressure: %.4f (target %.4f)\n", pressMetric.Value(), cfg.Pressure)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no runs yet")
			return nil
		}
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARTICLES\tSTEPS\tDT\tT0\tP0")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%g\n", r.ID, r.Particles, r.Steps, r.Dt, r.Temperature, r.Pressure)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", args[0])
	}

	temps := make([]float64, len(series))
	pressures := make([]float64, len(series))
	for i, row := range series {
		temps[i] = row.Temperature
		pressures[i] = row.Pressure
	}

	fmt.Println(asciigraph.Plot(temps, asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption("temperature")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(pressures, asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption("pressure")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	it, err := buildIntegrator(cfg)
	if err != nil {
		return err
	}
	return tui.Run(it)
}
