package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/wire"
)

var summonsCmd = &cobra.Command{
	Use:   "summons",
	Short: "Issue and track summonses",
}

var summonsIssueCmd = &cobra.Command{
	Use:   "issue [respondent-id]",
	Short: "Issue a summons to a respondent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("respondent", args[0])
		if err != nil {
			return err
		}
		appear, _ := cmd.Flags().GetString("appear")
		method, _ := cmd.Flags().GetString("method")
		sms, _ := cmd.Flags().GetString("sms")
		appearance, err := parseTime("appear", appear)
		if err != nil {
			return err
		}
		sm, err := wire.SummonsService().IssueSummons(NewContext(), primary.IssueSummonsRequest{
			RespondentID:   id,
			AppearanceDate: appearance,
			DeliveryMethod: method,
			NotifyNumber:   sms,
		})
		if err != nil {
			return fmt.Errorf("failed to issue summons: %w", err)
		}
		fmt.Printf("✓ Issued %s (id %d), appearance %s\n", sm.SummonsNumber, sm.ID, sm.AppearanceDate.Format("2006-01-02 15:04"))
		if sms != "" {
			fmt.Printf("  SMS queued for %s\n", sms)
		}
		return nil
	},
}

var summonsDeliverCmd = &cobra.Command{
	Use:   "deliver [summons-id]",
	Short: "Record delivery of a summons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("summons", args[0])
		if err != nil {
			return err
		}
		at, _ := cmd.Flags().GetString("at")
		method, _ := cmd.Flags().GetString("method")
		when, err := parseTime("at", at)
		if err != nil {
			return err
		}
		sm, err := wire.SummonsService().MarkDelivered(NewContext(), id, when, method)
		if err != nil {
			return err
		}
		printSummonsState(sm)
		return nil
	},
}

var summonsFailCmd = &cobra.Command{
	Use:   "fail [summons-id] [reason]",
	Short: "Record a failed delivery",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("summons", args[0])
		if err != nil {
			return err
		}
		sm, err := wire.SummonsService().MarkFailed(NewContext(), id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printSummonsState(sm)
		return nil
	},
}

var summonsReissueCmd = &cobra.Command{
	Use:   "reissue [summons-id]",
	Short: "Put a failed summons back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("summons", args[0])
		if err != nil {
			return err
		}
		sm, err := wire.SummonsService().Reissue(NewContext(), id)
		if err != nil {
			return err
		}
		printSummonsState(sm)
		return nil
	},
}

var summonsComplyCmd = &cobra.Command{
	Use:   "comply [summons-id]",
	Short: "Record compliance with a delivered summons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("summons", args[0])
		if err != nil {
			return err
		}
		at, _ := cmd.Flags().GetString("at")
		notes, _ := cmd.Flags().GetString("notes")
		when, err := parseTime("at", at)
		if err != nil {
			return err
		}
		sm, err := wire.SummonsService().RecordCompliance(NewContext(), id, when, notes)
		if err != nil {
			return err
		}
		printSummonsState(sm)
		return nil
	},
}

var summonsListCmd = &cobra.Command{
	Use:   "list [case-id]",
	Short: "List the summonses of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		list, err := wire.SummonsService().ListSummons(NewContext(), caseID)
		if err != nil {
			return err
		}
		printSummonsTable(list)
		return nil
	},
}

var summonsUncompliedCmd = &cobra.Command{
	Use:   "uncomplied",
	Short: "List delivered summonses still awaiting compliance",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("older-than-days")
		cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
		list, err := wire.SummonsService().ListUncomplied(NewContext(), cutoff)
		if err != nil {
			return err
		}
		printSummonsTable(list)
		return nil
	},
}

func summonsBadge(sm *models.Summons) string {
	switch sm.State() {
	case summons.StateComplied:
		return color.New(color.FgGreen).Sprint(string(sm.State()))
	case summons.StateFailed:
		return color.New(color.FgRed).Sprint(string(sm.State()))
	case summons.StateDelivered:
		return color.New(color.FgBlue).Sprint(string(sm.State()))
	default:
		return color.New(color.FgYellow).Sprint(string(sm.State()))
	}
}

func printSummonsState(sm *models.Summons) {
	fmt.Printf("✓ %s is now %s\n", sm.SummonsNumber, summonsBadge(sm))
}

func printSummonsTable(list []*models.Summons) {
	if len(list) == 0 {
		fmt.Println("No summonses found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tSTATE\tRESPONDENT\tAPPEARANCE")
	fmt.Fprintln(w, "--\t------\t-----\t----------\t----------")
	for _, sm := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", sm.ID, sm.SummonsNumber, summonsBadge(sm), sm.RespondentID, sm.AppearanceDate.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func init() {
	summonsIssueCmd.Flags().String("appear", "", "Appearance date (YYYY-MM-DD [HH:MM])")
	summonsIssueCmd.Flags().String("method", "Personal", "Delivery method")
	summonsIssueCmd.Flags().String("sms", "", "Queue an SMS about the summons to this number")
	summonsDeliverCmd.Flags().String("at", "", "Delivery time (defaults to now)")
	summonsDeliverCmd.Flags().String("method", "", "Delivery method used")
	summonsComplyCmd.Flags().String("at", "", "Compliance time (defaults to now)")
	summonsComplyCmd.Flags().String("notes", "", "Compliance notes")
	summonsUncompliedCmd.Flags().Int("older-than-days", 0, "Only summonses delivered at least this many days ago")

	summonsCmd.AddCommand(summonsIssueCmd)
	summonsCmd.AddCommand(summonsDeliverCmd)
	summonsCmd.AddCommand(summonsFailCmd)
	summonsCmd.AddCommand(summonsReissueCmd)
	summonsCmd.AddCommand(summonsComplyCmd)
	summonsCmd.AddCommand(summonsListCmd)
	summonsCmd.AddCommand(summonsUncompliedCmd)
}

// SummonsCmd returns the summons command
func SummonsCmd() *cobra.Command {
	return summonsCmd
}
