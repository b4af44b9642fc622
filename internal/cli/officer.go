package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/wire"
)

var officerCmd = &cobra.Command{
	Use:   "officer",
	Short: "Manage the officer roster",
}

var officerAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add an officer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		badge, _ := cmd.Flags().GetString("badge")
		rank, _ := cmd.Flags().GetString("rank")
		contact, _ := cmd.Flags().GetString("contact")
		o, err := wire.OfficerService().CreateOfficer(NewContext(), &models.Officer{
			Name:          args[0],
			BadgeNumber:   badge,
			Rank:          rank,
			ContactNumber: contact,
			IsActive:      true,
		})
		if err != nil {
			return fmt.Errorf("failed to add officer: %w", err)
		}
		fmt.Printf("✓ Added officer %d: %s (%s)\n", o.ID, o.Name, o.BadgeNumber)
		return nil
	},
}

var officerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List officers",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		officers, err := wire.OfficerService().ListOfficers(NewContext(), !all)
		if err != nil {
			return err
		}
		if len(officers) == 0 {
			fmt.Println("No officers found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBADGE\tRANK\tACTIVE")
		fmt.Fprintln(w, "--\t----\t-----\t----\t------")
		for _, o := range officers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", o.ID, o.Name, o.BadgeNumber, o.Rank, o.IsActive)
		}
		w.Flush()
		return nil
	},
}

var officerDeleteCmd = &cobra.Command{
	Use:   "delete [officer-id]",
	Short: "Remove an officer who has no active assignments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("officer", args[0])
		if err != nil {
			return err
		}
		if err := wire.OfficerService().DeleteOfficer(NewContext(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Officer %d removed\n", id)
		return nil
	},
}

func init() {
	officerAddCmd.Flags().String("badge", "", "Badge number (unique)")
	officerAddCmd.Flags().String("rank", "", "Rank")
	officerAddCmd.Flags().String("contact", "", "Contact number")
	officerListCmd.Flags().Bool("all", false, "Include inactive officers")

	officerCmd.AddCommand(officerAddCmd)
	officerCmd.AddCommand(officerListCmd)
	officerCmd.AddCommand(officerDeleteCmd)
}

// OfficerCmd returns the officer command
func OfficerCmd() *cobra.Command {
	return officerCmd
}
