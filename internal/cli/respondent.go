package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/wire"
)

var respondentCmd = &cobra.Command{
	Use:   "respondent",
	Short: "Manage respondents and their statements",
}

var respondentAddCmd = &cobra.Command{
	Use:   "add [case-id] [accusation]",
	Short: "Attach a respondent to a case",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		first, _ := cmd.Flags().GetString("first-name")
		last, _ := cmd.Flags().GetString("last-name")
		contact, _ := cmd.Flags().GetString("contact")
		address, _ := cmd.Flags().GetString("address")
		relationship, _ := cmd.Flags().GetString("relationship")

		req := primary.AddRespondentRequest{
			CaseID:                    caseID,
			Accusation:                strings.Join(args[1:], " "),
			RelationshipToComplainant: relationship,
		}
		if first != "" || last != "" {
			req.Person = &primary.PersonRef{FirstName: first, LastName: last, ContactNumber: contact, Address: address}
		}
		r, err := wire.RespondentService().AddRespondent(NewContext(), req)
		if err != nil {
			return fmt.Errorf("failed to add respondent: %w", err)
		}
		fmt.Printf("✓ Added respondent %d to case %d (%s)\n", r.ID, r.CaseID, r.CooperationStatus)
		return nil
	},
}

var respondentListCmd = &cobra.Command{
	Use:   "list [case-id]",
	Short: "List the respondents of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		respondents, err := wire.RespondentService().ListRespondents(NewContext(), caseID)
		if err != nil {
			return err
		}
		if len(respondents) == 0 {
			fmt.Println("No respondents found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPERSON\tACCUSATION")
		fmt.Fprintln(w, "--\t------\t------\t----------")
		for _, r := range respondents {
			person := "-"
			if r.PersonID != nil {
				person = fmt.Sprint(*r.PersonID)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.CooperationStatus, person, r.Accusation)
		}
		w.Flush()
		return nil
	},
}

var respondentAppearCmd = &cobra.Command{
	Use:   "appear [respondent-id]",
	Short: "Record that the respondent appeared",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("respondent", args[0])
		if err != nil {
			return err
		}
		at, _ := cmd.Flags().GetString("at")
		when, err := parseTime("at", at)
		if err != nil {
			return err
		}
		r, err := wire.RespondentService().MarkAsAppeared(NewContext(), id, when)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Respondent %d is now %s\n", r.ID, r.CooperationStatus)
		return nil
	},
}

var respondentNoResponseCmd = &cobra.Command{
	Use:   "no-response [respondent-id]",
	Short: "Record that the respondent did not respond",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("respondent", args[0])
		if err != nil {
			return err
		}
		r, err := wire.RespondentService().MarkNoResponse(NewContext(), id)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Respondent %d is now %s\n", r.ID, r.CooperationStatus)
		return nil
	},
}

var respondentStatementCmd = &cobra.Command{
	Use:   "statement [respondent-id] [statement]",
	Short: "Record a statement from a respondent who appeared",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("respondent", args[0])
		if err != nil {
			return err
		}
		via, _ := cmd.Flags().GetString("via")
		notes, _ := cmd.Flags().GetString("notes")
		s, err := wire.RespondentService().RecordStatement(NewContext(), primary.RecordStatementRequest{
			RespondentID: id,
			Statement:    strings.Join(args[1:], " "),
			SubmittedVia: via,
			OfficerNotes: notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Recorded statement %d for respondent %d\n", s.ID, s.RespondentID)
		return nil
	},
}

var respondentVerifyCmd = &cobra.Command{
	Use:   "verify [statement-id]",
	Short: "Verify a statement; it can no longer be edited afterwards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("statement", args[0])
		if err != nil {
			return err
		}
		by, _ := cmd.Flags().GetString("by")
		s, err := wire.RespondentService().VerifyStatement(NewContext(), id, by)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Statement %d verified by %s\n", s.ID, s.VerifiedBy)
		return nil
	},
}

var respondentStatementsCmd = &cobra.Command{
	Use:   "statements [respondent-id]",
	Short: "List the statements of a respondent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("respondent", args[0])
		if err != nil {
			return err
		}
		statements, err := wire.RespondentService().ListStatements(NewContext(), id)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			fmt.Println("No statements recorded.")
			return nil
		}
		for _, s := range statements {
			verified := "unverified"
			if s.VerifiedAt != nil {
				verified = "verified by " + s.VerifiedBy
			}
			fmt.Printf("[%d] %s via %s (%s)\n    %s\n", s.ID, s.SubmittedAt.Format("2006-01-02 15:04"), s.SubmittedVia, verified, s.Statement)
		}
		return nil
	},
}

func init() {
	respondentAddCmd.Flags().String("first-name", "", "Respondent first name (links a person record)")
	respondentAddCmd.Flags().String("last-name", "", "Respondent last name")
	respondentAddCmd.Flags().String("contact", "", "Respondent contact number")
	respondentAddCmd.Flags().String("address", "", "Respondent address")
	respondentAddCmd.Flags().String("relationship", "", "Relationship to the complainant")
	respondentAppearCmd.Flags().String("at", "", "Appearance time (defaults to now)")
	respondentStatementCmd.Flags().String("via", "In Person", "How the statement was submitted")
	respondentStatementCmd.Flags().String("notes", "", "Officer notes")
	respondentVerifyCmd.Flags().String("by", "", "Verifier (defaults to the acting user)")

	respondentCmd.AddCommand(respondentAddCmd)
	respondentCmd.AddCommand(respondentListCmd)
	respondentCmd.AddCommand(respondentAppearCmd)
	respondentCmd.AddCommand(respondentNoResponseCmd)
	respondentCmd.AddCommand(respondentStatementCmd)
	respondentCmd.AddCommand(respondentVerifyCmd)
	respondentCmd.AddCommand(respondentStatementsCmd)
}

// RespondentCmd returns the respondent command
func RespondentCmd() *cobra.Command {
	return respondentCmd
}
