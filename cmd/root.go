package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/edge-sim/airtime-sim/sim"
	_ "github.com/edge-sim/airtime-sim/sim/mobility"
	_ "github.com/edge-sim/airtime-sim/sim/network"
	"github.com/edge-sim/airtime-sim/sim/observability"
	"github.com/edge-sim/airtime-sim/sim/trace"
	"github.com/edge-sim/airtime-sim/sim/workload"
)

var (
	scenarioPath      string  // Scenario YAML file; built-in defaults when empty
	seed              int64   // Seed for mobility and application assignment
	simulationHorizon float64 // Overrides simulation_time when > 0 (seconds)
	logLevel          string  // Log verbosity level
	networkModel      string  // Overrides network_model when set
	traceLevel        string  // Transfer decision trace level
	resultsPath       string  // JSON results file
	metricsPath       string  // Prometheus text-format metrics file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "airtime-sim",
	Short: "Discrete-event simulator for shared-channel airtime in edge offloading",
}

// runOptions carries the resolved flags of one run.
type runOptions struct {
	ScenarioPath string
	Seed         int64
	Horizon      float64
	NetworkModel string
	TraceLevel   string
	ResultsPath  string
	MetricsPath  string
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the airtime simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		opts := runOptions{
			ScenarioPath: scenarioPath,
			Seed:         seed,
			Horizon:      simulationHorizon,
			NetworkModel: networkModel,
			TraceLevel:   traceLevel,
			ResultsPath:  resultsPath,
			MetricsPath:  metricsPath,
		}
		s, err := runSimulation(opts)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		s.Metrics.Print()
		logrus.Info("Simulation complete.")
	},
}

// loadScenario reads the scenario file (or the defaults) and applies flag
// overrides.
func loadScenario(opts runOptions) (*sim.Scenario, error) {
	sc := sim.DefaultScenario()
	if opts.ScenarioPath != "" {
		loaded, err := sim.LoadScenario(opts.ScenarioPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	if opts.Horizon > 0 {
		sc.SimulationTime = opts.Horizon
	}
	if opts.NetworkModel != "" {
		sc.NetworkModel = opts.NetworkModel
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// runSimulation builds the workload and simulator, runs it, and writes the
// requested output files.
func runSimulation(opts runOptions) (*sim.Simulator, error) {
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return nil, sim.NewConfigError("trace-level", "unknown level %q", opts.TraceLevel)
	}
	sc, err := loadScenario(opts)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting simulation: %d devices, %d access points, %s model, %.0f Mbps, horizon=%.2fs",
		sc.MobileDevices, sc.AccessPoints, sc.NetworkModel, sc.Channel.WLANBandwidthMbps, sc.SimulationTime)

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(opts.Seed))
	gen, err := workload.NewStreamLoadGenerator(sc, rng.ForSubsystem(sim.SubsystemWorkload))
	if err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}
	s, err := sim.NewSimulatorFromScenario(sc, opts.Seed, gen.Generate())
	if err != nil {
		return nil, err
	}

	if opts.TraceLevel != "" && opts.TraceLevel != string(trace.TraceLevelNone) {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(opts.TraceLevel)})
	}
	var collector *observability.TransferCollector
	if opts.MetricsPath != "" {
		collector, err = observability.NewTransferCollector(prometheus.NewRegistry())
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		s.Observer = collector
	}

	if err := s.Run(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	if s.Trace != nil {
		ts := trace.Summarize(s.Trace)
		logrus.Infof("Trace: %d decisions, %d scheduled, %d failed, mean delay %.6fs, %d access points used",
			ts.TotalDecisions, ts.ScheduledCount, ts.FailedCount, ts.MeanDelay, ts.UniqueAPs)
	}
	if collector != nil {
		if inspector, ok := s.Network.(sim.TimelineInspector); ok {
			collector.RecordTimelines(inspector)
		}
		if err := collector.WriteTextfile(opts.MetricsPath); err != nil {
			return nil, err
		}
	}
	if opts.ResultsPath != "" {
		if err := s.Metrics.SaveResults(runID, opts.ResultsPath); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (default: built-in scenario, see `defaults`)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for mobility and application assignment")
	runCmd.Flags().Float64Var(&simulationHorizon, "horizon", 0, "Simulation horizon in seconds (overrides simulation_time)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&networkModel, "network-model", "", "Network model: airtime or distance (overrides network_model)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Transfer decision trace level: none or transfers")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "Write JSON results to this file")
	runCmd.Flags().StringVar(&metricsPath, "metrics-path", "", "Write Prometheus text-format metrics to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
