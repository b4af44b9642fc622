package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/core/mediation"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/wire"
)

var mediationCmd = &cobra.Command{
	Use:   "mediation",
	Short: "Schedule mediation sessions and record outcomes",
	Long: `Scheduling a session moves a case waiting for mediation to Mediation Ongoing.
A Successful outcome settles the case; a Failed one endorses it to the Lupon.`,
}

var mediationScheduleCmd = &cobra.Command{
	Use:   "schedule [case-id]",
	Short: "Schedule a mediation session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		date, _ := cmd.Flags().GetString("date")
		location, _ := cmd.Flags().GetString("location")
		mediator, _ := cmd.Flags().GetString("mediator")
		when, err := parseTime("date", date)
		if err != nil {
			return err
		}
		m, err := wire.MediationService().ScheduleSession(NewContext(), &models.MediationSession{
			CaseID:       caseID,
			SessionDate:  when,
			Location:     location,
			MediatorName: mediator,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session: %w", err)
		}
		fmt.Printf("✓ Scheduled mediation session %d for case %d on %s\n", m.ID, m.CaseID, m.SessionDate.Format("2006-01-02 15:04"))
		return nil
	},
}

var mediationOutcomeCmd = &cobra.Command{
	Use:   "outcome [session-id] [Successful|Failed|Rescheduled]",
	Short: "Record the outcome of a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("session", args[0])
		if err != nil {
			return err
		}
		outcome, err := mediation.ParseOutcome(args[1])
		if err != nil {
			return err
		}
		terms, _ := cmd.Flags().GetString("terms")
		notes, _ := cmd.Flags().GetString("notes")
		newDate, _ := cmd.Flags().GetString("new-date")

		req := primary.RecordOutcomeRequest{SessionID: id, Outcome: outcome, SettlementTerms: terms, Notes: notes}
		if newDate != "" {
			when, err := parseTime("new-date", newDate)
			if err != nil {
				return err
			}
			req.NewDate = &when
		}
		m, err := wire.MediationService().RecordOutcome(NewContext(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Session %d outcome: %s\n", m.ID, m.Outcome)
		return nil
	},
}

var mediationListCmd = &cobra.Command{
	Use:   "list [case-id]",
	Short: "List the mediation sessions of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		sessions, err := wire.MediationService().ListSessions(NewContext(), caseID)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No mediation sessions found.")
			return nil
		}
		for _, m := range sessions {
			fmt.Printf("%d  %s  %-12s %s\n", m.ID, m.SessionDate.Format("2006-01-02 15:04"), m.Outcome, m.MediatorName)
		}
		return nil
	},
}

func init() {
	mediationScheduleCmd.Flags().String("date", "", "Session date (YYYY-MM-DD [HH:MM])")
	mediationScheduleCmd.Flags().String("location", "", "Where the session is held")
	mediationScheduleCmd.Flags().String("mediator", "", "Mediator name")
	mediationOutcomeCmd.Flags().String("terms", "", "Settlement terms")
	mediationOutcomeCmd.Flags().String("notes", "", "Session notes")
	mediationOutcomeCmd.Flags().String("new-date", "", "New date, required when Rescheduled")

	mediationCmd.AddCommand(mediationScheduleCmd)
	mediationCmd.AddCommand(mediationOutcomeCmd)
	mediationCmd.AddCommand(mediationListCmd)
}

// MediationCmd returns the mediation command
func MediationCmd() *cobra.Command {
	return mediationCmd
}
