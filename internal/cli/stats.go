package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/wire"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	var exposition bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store counters and this process's metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			if err := wire.CaseAdapter().Dashboard(ctx, nowUTC()); err != nil {
				return err
			}

			counts, err := wire.RespondentService().CountByCooperationStatus(ctx, 0)
			if err != nil {
				return err
			}
			if len(counts) > 0 {
				fmt.Println("Respondents:")
				for status, n := range counts {
					fmt.Printf("  %-20s %d\n", status, n)
				}
				fmt.Println()
			}

			if exposition {
				text, err := wire.Metrics().Text()
				if err != nil {
					return err
				}
				fmt.Print(text)
				return nil
			}
			samples, err := wire.Metrics().Counters()
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, s := range samples {
				fmt.Fprintf(w, "%s\t{%s}\t%g\n", s.Name, s.Labels, s.Value)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVar(&exposition, "metrics", false, "Print metrics in Prometheus text exposition format")
	return cmd
}
