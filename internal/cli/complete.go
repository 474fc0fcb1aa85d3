package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompleteCmd(configPath *string) *cobra.Command {
	var inProgress bool
	cmd := &cobra.Command{
		Use:   "complete <module-id>",
		Short: "Mark a module as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			moduleID := args[0]
			if inProgress {
				if err := a.Modules.MarkInProgress(cmd.Context(), moduleID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "module %s marked in progress\n", moduleID)
				return nil
			}
			if err := a.Modules.MarkComplete(cmd.Context(), moduleID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "module %s completed\n", moduleID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&inProgress, "in-progress", false, "mark in progress instead of completed")
	return cmd
}
