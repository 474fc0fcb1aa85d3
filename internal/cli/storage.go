package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStorageCmd(configPath *string) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Show storage usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if clear {
				if err := a.Adapter.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "stored state cleared")
				return nil
			}

			report := a.Adapter.UsageReport(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "used: %d bytes of %d (%.1f%%)\n",
				report.UsedBytes, report.EstimatedCapacity, report.Percentage)
			if !a.Adapter.Available() {
				fmt.Fprintln(cmd.OutOrStdout(), "durable store unavailable, state is process-local")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all stored state")
	return cmd
}
