package cli

import (
	"github.com/spf13/cobra"
)

func newRecommendCmd(configPath, specialization *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest what to study next",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := resolveSpecialization(a.Config, *specialization); err != nil {
				return err
			}
			return printJSON(cmd, a.Recommend.Recommendations())
		},
	}
}
