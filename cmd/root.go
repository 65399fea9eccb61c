package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	proc "github.com/sludge-sim/sludge-sim/proc"
)

var (
	// CLI flags
	scenarioPath string // Path to the scenario YAML describing influent and unit chain
	logLevel     string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sludge-sim",
	Short: "Steady-state simulator for wastewater sludge handling unit operations",
}

// runCmd executes a scenario: builds the flowsheet, runs it to convergence,
// then sizes and costs the equipment.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a sludge handling scenario",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("No scenario file provided. Exiting.")
		}

		scn, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}

		cs := proc.DefaultComponents()
		sys, streams, err := scn.Build(cs)
		if err != nil {
			logrus.Fatalf("Failed to build flowsheet: %v", err)
		}

		logrus.Infof("Running flowsheet with %d units", len(sys.Units()))
		if err := sys.Simulate(); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		for _, s := range streams {
			logrus.Infof("stream %s  F_mass=%.4g kg/h  F_vol=%.4g m3/h  COD=%.4g mg/L", s, s.FMass(), s.FVol(), s.COD())
		}
		totalPower := 0.0
		totalInstalled := 0.0
		for _, u := range sys.Units() {
			cr, ok := u.(proc.CostingReporter)
			if !ok {
				continue
			}
			c := cr.CostRecords()
			totalPower += c.PowerKW
			totalInstalled += c.InstalledCost()
			logrus.Infof("unit %s  power=%.3f kW  installed cost=%.2f USD", u.ID(), c.PowerKW, c.InstalledCost())
			for item, v := range c.DesignResults {
				logrus.Debugf("unit %s  %s = %.4g", u.ID(), item, v)
			}
		}
		logrus.Infof("totals: power=%.3f kW, installed cost=%.2f USD", totalPower, totalInstalled)

		logrus.Info("Simulation complete.")
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to scenario YAML file")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
