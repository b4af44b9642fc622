package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var caseID int64

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a case list (or one case timeline) that refreshes on every change",
		Long: `Keep a live view open. The view is re-queried after every committed write
made by this process, such as a sync pull running in the same session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(NewContext(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			adapter := wire.CaseAdapter()
			if caseID > 0 {
				for entries := range wire.CaseService().WatchTimeline(ctx, caseID) {
					fmt.Printf("\n── case %d timeline @ %s ──\n", caseID, time.Now().Format("15:04:05"))
					adapter.PrintTimeline(entries)
				}
				return nil
			}

			filters, err := caseFiltersFromFlags(cmd)
			if err != nil {
				return err
			}
			for cases := range wire.CaseService().WatchCases(ctx, filters) {
				fmt.Printf("\n── %d case(s) @ %s ──\n", len(cases), time.Now().Format("15:04:05"))
				adapter.PrintCases(cases)
			}
			return nil
		},
	}

	addCaseFilterFlags(cmd)
	cmd.Flags().Int64Var(&caseID, "case", 0, "Watch the timeline of this case instead")
	return cmd
}
