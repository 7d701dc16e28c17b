package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/edge-sim/airtime-sim/sim"
)

var defaultsOutput string // File to write the default scenario to; stdout when empty

// defaultsCmd prints the built-in scenario so it can be edited and passed back via --scenario.
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default scenario YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaultScenario(defaultsOutput); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func writeDefaultScenario(path string) error {
	data, err := sim.DefaultScenario().Marshal()
	if err != nil {
		return fmt.Errorf("rendering default scenario: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

func init() {
	defaultsCmd.Flags().StringVar(&defaultsOutput, "output", "", "Write the scenario to this file instead of stdout")
}
