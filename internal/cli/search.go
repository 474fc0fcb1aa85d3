package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

func newSearchCmd(configPath *string) *cobra.Command {
	var track string
	var categoryFilter string
	var difficulty string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search modules and quizzes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			if track != "" {
				results, err := a.Registry.SearchInTrack(query, domain.Track(track))
				if err != nil {
					return err
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-40s score=%d\n", r.Kind, r.ID(), r.Score)
				}
				return nil
			}

			filters := content.SearchFilters{
				Category:   categoryFilter,
				Difficulty: domain.Difficulty(difficulty),
			}
			for _, m := range a.Registry.Search(query, filters) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-12s %s\n", m.ID, m.Status, m.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&track, "track", "", "rank results within one track")
	cmd.Flags().StringVar(&categoryFilter, "category", "", "filter by source category")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "filter by difficulty")
	return cmd
}
