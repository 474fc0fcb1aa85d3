package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(configPath, specialization *string) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a progress snapshot as JSON",
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
			data, err := a.Exporter.Export(track)
			if err != nil {
				return err
			}
			if outFile != "" {
				return os.WriteFile(outFile, data, 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the snapshot to a file instead of stdout")
	return cmd
}
