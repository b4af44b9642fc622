package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/adapters/peerfile"
	"github.com/example/blotter/internal/wire"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange records with another blotter through a snapshot file",
}

var syncPullCmd = &cobra.Command{
	Use:   "pull [snapshot.json]",
	Short: "Upsert every record from a peer snapshot",
	Long: `Read a snapshot exported by another store and upsert its cases, persons,
officers, respondents, hearings and summonses by id in one transaction.
Filers whose user account does not exist here are detached.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := wire.SyncService(args[0]).Pull(NewContext())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		fmt.Println("✓ Sync complete")
		fmt.Printf("  Cases:       %d\n", report.Cases)
		fmt.Printf("  Persons:     %d\n", report.Persons)
		fmt.Printf("  Officers:    %d\n", report.Officers)
		fmt.Printf("  Respondents: %d\n", report.Respondents)
		fmt.Printf("  Hearings:    %d\n", report.Hearings)
		fmt.Printf("  Summonses:   %d\n", report.Summons)
		if report.DetachedFilers > 0 {
			fmt.Printf("  %d case(s) had an unknown filer and were detached\n", report.DetachedFilers)
		}
		return nil
	},
}

var syncExportCmd = &cobra.Command{
	Use:   "export [snapshot.json]",
	Short: "Write this store's records to a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		records, err := wire.SyncService(args[0]).Export(ctx)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		snap := &peerfile.Snapshot{
			ExportedBy:  wire.Config().Actor,
			Cases:       records.Cases,
			Persons:     records.Persons,
			Officers:    records.Officers,
			Respondents: records.Respondents,
			Hearings:    records.Hearings,
			Summons:     records.Summons,
		}
		if err := peerfile.Write(args[0], snap); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d case(s) to %s\n", len(snap.Cases), args[0])
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncExportCmd)
}

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	return syncCmd
}
