package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"reco/internal/usecase"
)

var (
	trackUser    int
	trackProduct int
	trackEvent   string
	trackTS      string
	trackJSON    bool
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record a user interaction",
	Long: `Append an interaction to the event log.

Examples:
  reco track --user 42 --product 7 --event purchase
  reco track --user 42 --product 3 --event view --ts 2025-05-30T18:00:00Z`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().IntVarP(&trackUser, "user", "u", 0, "user id (required)")
	trackCmd.Flags().IntVarP(&trackProduct, "product", "p", 0, "product id (required)")
	trackCmd.Flags().StringVarP(&trackEvent, "event", "e", "view", "event kind: view, add_to_cart, purchase")
	trackCmd.Flags().StringVar(&trackTS, "ts", "", "event time (default now)")
	trackCmd.Flags().BoolVar(&trackJSON, "json", false, "output as JSON")
	trackCmd.MarkFlagRequired("user")
	trackCmd.MarkFlagRequired("product")
}

func runTrack(cmd *cobra.Command, args []string) error {
	a, err := newApp(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.svc.RecordEvent(cmd.Context(), usecase.TrackInput{
		UserID:    trackUser,
		ProductID: trackProduct,
		Event:     trackEvent,
		TS:        trackTS,
	})
	if err != nil {
		return err
	}

	if trackJSON {
		return printJSON(e)
	}
	fmt.Printf("Logged %s of product %d by user %d at %s\n", e.Kind, e.ItemID, e.UserID, e.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}
