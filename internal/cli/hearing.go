package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/wire"
)

var hearingCmd = &cobra.Command{
	Use:   "hearing",
	Short: "Schedule and record hearings",
}

var hearingScheduleCmd = &cobra.Command{
	Use:   "schedule [case-id]",
	Short: "Schedule a hearing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetString("date")
		location, _ := cmd.Flags().GetString("location")
		purpose, _ := cmd.Flags().GetString("purpose")
		presiding, _ := cmd.Flags().GetString("presiding")
		when, err := parseTime("date", date)
		if err != nil {
			return err
		}
		h, err := wire.HearingService().ScheduleHearing(NewContext(), &models.Hearing{
			CaseID:           caseID,
			HearingDate:      when,
			Location:         location,
			Purpose:          purpose,
			PresidingOfficer: presiding,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule hearing: %w", err)
		}
		fmt.Printf("✓ Scheduled hearing %d for case %d on %s at %s\n", h.ID, h.CaseID, h.HearingDate.Format("2006-01-02 15:04"), h.Location)
		return nil
	},
}

var hearingCompleteCmd = &cobra.Command{
	Use:   "complete [hearing-id] [notes]",
	Short: "Mark a hearing as held",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("hearing", args[0])
		if err != nil {
			return err
		}
		h, err := wire.HearingService().CompleteHearing(NewContext(), id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Hearing %d is now %s\n", h.ID, h.Status)
		return nil
	},
}

var hearingCancelCmd = &cobra.Command{
	Use:   "cancel [hearing-id] [reason]",
	Short: "Cancel a scheduled hearing",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("hearing", args[0])
		if err != nil {
			return err
		}
		h, err := wire.HearingService().CancelHearing(NewContext(), id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Hearing %d is now %s\n", h.ID, h.Status)
		return nil
	},
}

var hearingListCmd = &cobra.Command{
	Use:   "list [case-id]",
	Short: "List the hearings of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		hearings, err := wire.HearingService().ListHearings(NewContext(), caseID)
		if err != nil {
			return err
		}
		printHearings(hearings)
		return nil
	},
}

var hearingUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List scheduled hearings from now on",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		hearings, err := wire.HearingService().ListUpcoming(NewContext(), time.Now().UTC(), limit)
		if err != nil {
			return err
		}
		printHearings(hearings)
		return nil
	},
}

func printHearings(hearings []*models.Hearing) {
	if len(hearings) == 0 {
		fmt.Println("No hearings found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCASE\tDATE\tSTATUS\tLOCATION\tPURPOSE")
	fmt.Fprintln(w, "--\t----\t----\t------\t--------\t-------")
	for _, h := range hearings {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", h.ID, h.CaseID, h.HearingDate.Format("2006-01-02 15:04"), h.Status, h.Location, h.Purpose)
	}
	w.Flush()
}

func init() {
	hearingScheduleCmd.Flags().String("date", "", "Hearing date (YYYY-MM-DD [HH:MM])")
	hearingScheduleCmd.Flags().String("location", "Barangay Hall", "Where the hearing is held")
	hearingScheduleCmd.Flags().String("purpose", "", "Purpose of the hearing")
	hearingScheduleCmd.Flags().String("presiding", "", "Presiding officer")
	hearingUpcomingCmd.Flags().Int("limit", 10, "Maximum number of hearings")

	hearingCmd.AddCommand(hearingScheduleCmd)
	hearingCmd.AddCommand(hearingCompleteCmd)
	hearingCmd.AddCommand(hearingCancelCmd)
	hearingCmd.AddCommand(hearingListCmd)
	hearingCmd.AddCommand(hearingUpcomingCmd)
}

// HearingCmd returns the hearing command
func HearingCmd() *cobra.Command {
	return hearingCmd
}
