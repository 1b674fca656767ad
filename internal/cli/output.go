package cli

import (
	"fmt"

	"github.com/goccy/go-json"

	"reco/internal/domain"
)

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printItems(items []domain.ScoredItem) {
	if len(items) == 0 {
		fmt.Println("No results found.")
		return
	}
	for i, it := range items {
		fmt.Printf("%2d. [%d] %s (%s) score=%.4f\n", i+1, it.Item.ID, it.Item.Name, it.Item.Category, it.Score)
	}
}
