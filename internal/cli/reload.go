package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"reco/internal/adapter/store"
	"reco/internal/usecase"
)

var reloadJSON bool

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Fetch the catalog and refresh cached embeddings",
	Long: `Fetch the catalog, embed any products whose text changed since the last
run and report the resulting index. Embeddings are cached in the local
store, so repeated reloads only pay for new or edited products.`,
	RunE: runReload,
}

func init() {
	rootCmd.AddCommand(reloadCmd)
	reloadCmd.Flags().BoolVar(&reloadJSON, "json", false, "output as JSON")
}

func runReload(cmd *cobra.Command, args []string) error {
	a, err := newApp(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer a.Close()

	var progress usecase.ProgressFunc
	if !reloadJSON {
		progress = newProgressBar("Embedding")
	}

	report, err := reload(cmd.Context(), a, progress)
	if err != nil {
		return err
	}

	if reloadJSON {
		return printJSON(report)
	}
	result := report.Rebuild
	fmt.Printf("Indexed %d products (%d fetched, %d duplicates, %d rejected)\n",
		result.Indexed, result.Fetched, result.Duplicates, result.Rejected)
	fmt.Printf("Embedded %d texts, %d served from cache, took %v\n",
		result.Embedded, result.CacheHits, result.Duration)
	fmt.Printf("Store: %d catalog records, %d cached embeddings, %d events\n",
		report.Store.CatalogItems, report.Store.Embeddings, report.Store.Events)
	return nil
}

// reloadReport is the outcome of a rebuild plus what the local store holds
// afterwards.
type reloadReport struct {
	Rebuild *usecase.RebuildResult `json:"rebuild"`
	Store   store.Stats            `json:"store"`
}

func reload(ctx context.Context, a *app, progress usecase.ProgressFunc) (*reloadReport, error) {
	result, err := a.svc.Reload(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("reload failed: %w", err)
	}
	stats, err := a.store.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to read store stats: %w", err)
	}
	return &reloadReport{Rebuild: result, Store: stats}, nil
}

// newProgressBar returns a progress callback that lazily creates a bar
// sized to the first reported total.
func newProgressBar(description string) usecase.ProgressFunc {
	var (
		bar *progressbar.ProgressBar
		mu  sync.Mutex
	)
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		_ = bar.Set(done)
	}
}

// loadIndex rebuilds the in-process store before a one-shot query.
func loadIndex(ctx context.Context, a *app) error {
	if _, err := a.svc.Reload(ctx, nil); err != nil {
		if a.svc.CurrentSize() == 0 {
			return fmt.Errorf("no catalog available: %w", err)
		}
	}
	return nil
}
