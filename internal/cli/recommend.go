package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"reco/internal/usecase"
)

var (
	recommendUser    int
	recommendHistory []string
	recommendK       int
	recommendJSON    bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend products for a user or a browsing history",
	Long: `Recommend products from a user's recorded interactions. When the user has
no usable history the given product ids are averaged instead, and when
neither yields a signal the most popular products are returned.

Examples:
  reco recommend --user 42
  reco recommend --history 3,7,12 -k 4`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVarP(&recommendUser, "user", "u", 0, "user id")
	recommendCmd.Flags().StringSliceVar(&recommendHistory, "history", nil, "recently viewed product ids")
	recommendCmd.Flags().IntVarP(&recommendK, "top-k", "k", 0, "number of results (default from config)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output as JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	a, err := newApp(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := loadIndex(cmd.Context(), a); err != nil {
		return err
	}

	in := usecase.RecommendInput{History: recommendHistory, K: recommendK}
	if cmd.Flags().Changed("user") {
		in.UserID = &recommendUser
	}

	out, err := a.svc.RecommendForUser(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	if recommendJSON {
		return printJSON(out)
	}
	fmt.Printf("Source: %s\n\n", out.Source)
	printItems(out.Items)
	return nil
}
