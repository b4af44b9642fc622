package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/cli"
	"github.com/example/blotter/internal/config"
	"github.com/example/blotter/internal/version"
	"github.com/example/blotter/internal/wire"
)

func main() {
	var dbPath, actor string

	rootCmd := &cobra.Command{
		Use:     "blotter",
		Short:   "Blotter - barangay case management",
		Version: version.String(),
		Long: `Blotter records barangay blotter cases and carries them through investigation,
mediation and the Lupon: respondents, summonses, hearings, KP forms and resolutions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if actor != "" {
				cfg.Actor = actor
			}
			wire.Configure(cfg)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config and "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&actor, "as", "", "Act as this user (overrides config and "+config.EnvActor+")")

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MigrateCmd())

	// Case workflow
	rootCmd.AddCommand(cli.CaseCmd())
	rootCmd.AddCommand(cli.RespondentCmd())
	rootCmd.AddCommand(cli.SummonsCmd())
	rootCmd.AddCommand(cli.HearingCmd())
	rootCmd.AddCommand(cli.MediationCmd())
	rootCmd.AddCommand(cli.KPFormCmd())

	// Directory and administration
	rootCmd.AddCommand(cli.OfficerCmd())
	rootCmd.AddCommand(cli.PersonCmd())
	rootCmd.AddCommand(cli.NotifyCmd())
	rootCmd.AddCommand(cli.TemplateCmd())
	rootCmd.AddCommand(cli.SyncCmd())

	// Live views
	rootCmd.AddCommand(cli.WatchCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	err := rootCmd.Execute()
	if closeErr := wire.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
