package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath     string
	specialization string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "lernapp",
		Short: "Exam preparation trainer for the IHK Fachinformatiker part-2 exam",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&specialization, "specialization", "", "exam specialization (daten-prozessanalyse, anwendungsentwicklung, allgemein)")
	cmd.AddCommand(newStatsCmd(&configPath, &specialization))
	cmd.AddCommand(newRecommendCmd(&configPath, &specialization))
	cmd.AddCommand(newExportCmd(&configPath, &specialization))
	cmd.AddCommand(newCompleteCmd(&configPath))
	cmd.AddCommand(newSearchCmd(&configPath))
	cmd.AddCommand(newQuizCmd(&configPath))
	cmd.AddCommand(newStorageCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}
