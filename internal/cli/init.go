package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/config"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		fixtures   bool
		saveConfig bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the blotter database",
		Long: `Open (and migrate) the blotter database, seed the status catalog and make sure
an Admin account exists. Safe to run repeatedly.

When no admin password is configured a random one is generated and printed once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			cfg := wire.Config()
			fmt.Printf("Initializing blotter database at %s\n", cfg.DBPath)

			inserted, err := wire.BootstrapService().EnsureDefaultStatuses(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed statuses: %w", err)
			}
			fmt.Printf("✓ Status catalog ready (%d added)\n", inserted)

			admin, err := wire.BootstrapService().EnsureAdminAccount(ctx)
			if err != nil {
				return fmt.Errorf("failed to ensure admin account: %w", err)
			}
			switch {
			case !admin.Created:
				fmt.Println("✓ Admin account already present")
			case admin.GeneratedPassword != "":
				fmt.Printf("✓ Created admin account %q\n", admin.Username)
				fmt.Printf("  Password: %s\n", color.New(color.FgYellow, color.Bold).Sprint(admin.GeneratedPassword))
				fmt.Println("  It is shown only once and must be changed at first login.")
			default:
				fmt.Printf("✓ Created admin account %q with the configured password\n", admin.Username)
			}

			if fixtures {
				if err := db.SeedFixtures(ctx, wire.DB()); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Development fixtures loaded")
			}

			if saveConfig {
				dir, err := configDir()
				if err != nil {
					return err
				}
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s/.blotter/config.json\n", dir)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  blotter case file --type \"Noise Complaint\" --narrative \"...\" --location \"Purok 2\" --complainant \"Maria Santos\"")
			fmt.Println("  blotter case dashboard")
			return nil
		},
	}

	cmd.Flags().BoolVar(&fixtures, "fixtures", false, "Load development fixtures (officers, persons, sample cases)")
	cmd.Flags().BoolVar(&saveConfig, "save-config", false, "Write the effective configuration to .blotter/config.json")
	return cmd
}
