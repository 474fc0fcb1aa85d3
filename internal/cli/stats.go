package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(configPath, specialization *string) *cobra.Command {
	var readiness bool
	var weak bool
	var diagnostics bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			track, err := resolveSpecialization(a.Config, *specialization)
			if err != nil {
				return err
			}

			var out any
			switch {
			case readiness:
				out = a.Progress.ExamReadiness()
			case weak:
				out = a.Progress.WeakAreas()
			case diagnostics:
				for _, warning := range a.Diagnostics.Warnings() {
					fmt.Fprintln(cmd.OutOrStdout(), warning.String())
				}
				return nil
			default:
				out = a.Progress.OverallProgress(track)
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&readiness, "readiness", false, "show exam readiness estimate")
	cmd.Flags().BoolVar(&weak, "weak-areas", false, "show weak areas")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "show content integrity warnings")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
