package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/wire"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	var target int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Show or change the schema version",
		Long: `Opening the database always migrates it to the current version. Use --to to move
an existing store to a specific earlier-known version step by step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			database := wire.DB()
			migrator := db.NewMigrator(db.Migrations(), wire.Logger(), wire.Metrics(), wire.Config().AllowDestructiveRebuild)

			if target > 0 {
				if err := migrator.Migrate(ctx, database, target); err != nil {
					return err
				}
			}
			version, err := migrator.Version(ctx, database)
			if err != nil {
				return err
			}
			fmt.Printf("Schema version: %d (current release: %d)\n", version, db.CurrentVersion)
			return nil
		},
	}

	cmd.Flags().IntVar(&target, "to", 0, "Migrate to this version")
	return cmd
}
