package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchQuery string
	searchK     int
	searchJSON  bool

	similarID   int
	similarK    int
	similarJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank the catalog against a free-text query",
	Long: `Embed a query and return the most similar products.

Examples:
  reco search -q "lemon tart"
  reco search -q "chocolate" -k 10 --json`,
	RunE: runSearch,
}

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find products similar to a given product",
	RunE:  runSimilar,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntVar(&similarID, "id", 0, "reference product id (required)")
	similarCmd.Flags().IntVarP(&similarK, "top-k", "k", 0, "number of results (default from config)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output as JSON")
	similarCmd.MarkFlagRequired("id")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := loadIndex(cmd.Context(), a); err != nil {
		return err
	}

	items, err := a.svc.SearchByText(cmd.Context(), searchQuery, searchK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(items)
	}
	fmt.Printf("Results for: %s\n\n", searchQuery)
	printItems(items)
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	a, err := newApp(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := loadIndex(cmd.Context(), a); err != nil {
		return err
	}

	items, err := a.svc.SimilarToItem(cmd.Context(), similarID, similarK)
	if err != nil {
		return fmt.Errorf("similar failed: %w", err)
	}

	if similarJSON {
		return printJSON(items)
	}
	printItems(items)
	return nil
}
