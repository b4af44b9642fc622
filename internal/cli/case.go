package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/wire"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage blotter cases",
	Long:  "File, list, move and resolve cases in the blotter",
}

var caseFileCmd = &cobra.Command{
	Use:   "file",
	Short: "File a new case",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		number, _ := cmd.Flags().GetString("number")
		incidentType, _ := cmd.Flags().GetString("type")
		narrative, _ := cmd.Flags().GetString("narrative")
		location, _ := cmd.Flags().GetString("location")
		occurred, _ := cmd.Flags().GetString("occurred")
		priority, _ := cmd.Flags().GetString("priority")
		complainant, _ := cmd.Flags().GetString("complainant")
		contact, _ := cmd.Flags().GetString("contact")
		address, _ := cmd.Flags().GetString("address")
		officers, _ := cmd.Flags().GetString("officers")
		templateID, _ := cmd.Flags().GetInt64("template")

		incidentDate, err := parseTime("occurred", occurred)
		if err != nil {
			return err
		}
		officerIDs, err := parseIDs("officer", officers)
		if err != nil {
			return err
		}
		// Left blank so a template's default priority can apply.
		var p models.Priority
		if priority != "" {
			if p, err = models.ParsePriority(priority); err != nil {
				return err
			}
		}

		req := primary.FileCaseRequest{
			CaseNumber:         number,
			IncidentType:       incidentType,
			Narrative:          narrative,
			IncidentLocation:   location,
			IncidentDate:       incidentDate,
			Priority:           p,
			ComplainantName:    complainant,
			ComplainantContact: contact,
			ComplainantAddress: address,
			AssignedOfficerIDs: officerIDs,
		}
		if templateID > 0 {
			c, err := wire.CaseService().FileFromTemplate(ctx, primary.FileFromTemplateRequest{TemplateID: templateID, Case: req})
			if err != nil {
				return fmt.Errorf("failed to file case: %w", err)
			}
			fmt.Printf("✓ Filed case %s (id %d) from template %d\n", c.CaseNumber, c.ID, templateID)
			return nil
		}
		if _, err := wire.CaseAdapter().File(ctx, req); err != nil {
			return fmt.Errorf("failed to file case: %w", err)
		}
		return nil
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := caseFiltersFromFlags(cmd)
		if err != nil {
			return err
		}
		return wire.CaseAdapter().List(NewContext(), filters)
	},
}

var caseSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search case number, narrative, type and complainant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		cases, err := wire.CaseService().SearchCases(NewContext(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		wire.CaseAdapter().PrintCases(cases)
		return nil
	},
}

var caseShowCmd = &cobra.Command{
	Use:   "show [case-id]",
	Short: "Show case details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		if _, err := wire.CaseAdapter().Show(ctx, caseID); err != nil {
			return err
		}

		respondents, err := wire.RespondentService().ListRespondents(ctx, caseID)
		if err != nil {
			return err
		}
		if len(respondents) > 0 {
			fmt.Println("Respondents:")
			for _, r := range respondents {
				fmt.Printf("  %d  %-18s %s\n", r.ID, r.CooperationStatus, r.Accusation)
			}
			fmt.Println()
		}
		return nil
	},
}

var caseStatusCmd = &cobra.Command{
	Use:   "status [case-id] [status]",
	Short: "Move a case to another status",
	Long: `Move a case along the workflow. Resolved and Archived are reached through
'case resolve' and 'case archive'; Closed requires an Admin.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		target, err := blotter.ParseStatus(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		remarks, _ := cmd.Flags().GetString("remarks")
		return wire.CaseAdapter().ChangeStatus(NewContext(), caseID, target, remarks)
	},
}

var caseAssignCmd = &cobra.Command{
	Use:   "assign [case-id] [officer-ids]",
	Short: "Replace the officers assigned to a case (comma-separated ids)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		officerIDs, err := parseIDs("officer", args[1])
		if err != nil {
			return err
		}
		c, err := wire.CaseService().AssignOfficers(NewContext(), caseID, officerIDs)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Case %s assigned to %d officer(s)\n", c.CaseNumber, len(c.AssignedOfficerIDs))
		return nil
	},
}

var caseResolveCmd = &cobra.Command{
	Use:   "resolve [case-id] [resolution-type]",
	Short: "Record the resolution of a case",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		details, _ := cmd.Flags().GetString("details")
		return wire.CaseAdapter().Resolve(NewContext(), primary.CreateResolutionRequest{
			CaseID:            caseID,
			ResolutionType:    strings.Join(args[1:], " "),
			ResolutionDetails: details,
		})
	},
}

var caseArchiveCmd = &cobra.Command{
	Use:   "archive [case-id]",
	Short: "Archive a resolved case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		c, err := wire.CaseService().ArchiveCase(NewContext(), caseID)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Case %s archived\n", c.CaseNumber)
		return nil
	},
}

var caseDeleteCmd = &cobra.Command{
	Use:   "delete [case-id]",
	Short: "Delete a pending case and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		if err := wire.CaseService().DeleteCase(NewContext(), caseID); err != nil {
			return err
		}
		fmt.Printf("✓ Case %d deleted\n", caseID)
		return nil
	},
}

var caseTimelineCmd = &cobra.Command{
	Use:   "timeline [case-id]",
	Short: "Show the case timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		return wire.CaseAdapter().Timeline(NewContext(), caseID)
	},
}

var caseActivityCmd = &cobra.Command{
	Use:   "activity [case-id]",
	Short: "Show the activity log of a case, or of the whole store without an id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var caseID int64
		if len(args) == 1 {
			id, err := parseID("case", args[0])
			if err != nil {
				return err
			}
			caseID = id
		}
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := wire.CaseService().Activity(NewContext(), caseID, limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity recorded.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-22s %s (%s)\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Action, e.Description, e.PerformedBy)
		}
		return nil
	},
}

var caseDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show live case counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.CaseAdapter().Dashboard(NewContext(), time.Now().UTC())
	},
}

func caseFiltersFromFlags(cmd *cobra.Command) (models.CaseFilters, error) {
	status, _ := cmd.Flags().GetString("status")
	officerID, _ := cmd.Flags().GetInt64("officer")
	archived, _ := cmd.Flags().GetBool("archived")
	limit, _ := cmd.Flags().GetInt("limit")

	filters := models.CaseFilters{OfficerID: officerID, IncludeArchived: archived, Limit: limit}
	if status != "" {
		s, err := blotter.ParseStatus(status)
		if err != nil {
			return filters, err
		}
		filters.Status = s
	}
	return filters, nil
}

func addCaseFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "Filter by status")
	cmd.Flags().Int64("officer", 0, "Filter by assigned officer id")
	cmd.Flags().Bool("archived", false, "Include archived cases")
	cmd.Flags().Int("limit", 0, "Maximum number of cases")
}

func init() {
	caseFileCmd.Flags().String("number", "", "Case number (YYYY-NNN); generated when omitted")
	caseFileCmd.Flags().String("type", "", "Incident type")
	caseFileCmd.Flags().String("narrative", "", "What happened")
	caseFileCmd.Flags().String("location", "", "Where it happened")
	caseFileCmd.Flags().String("occurred", "", "When it happened (YYYY-MM-DD [HH:MM])")
	caseFileCmd.Flags().String("priority", "", "Low, Normal, High or Urgent")
	caseFileCmd.Flags().String("complainant", "", "Complainant name")
	caseFileCmd.Flags().String("contact", "", "Complainant contact number")
	caseFileCmd.Flags().String("address", "", "Complainant address")
	caseFileCmd.Flags().String("officers", "", "Comma-separated officer ids to assign")
	caseFileCmd.Flags().Int64("template", 0, "File from this template id")

	addCaseFilterFlags(caseListCmd)
	caseSearchCmd.Flags().Int("limit", 20, "Maximum number of results")
	caseStatusCmd.Flags().String("remarks", "", "Remarks for the timeline")
	caseResolveCmd.Flags().String("details", "", "Resolution details")
	caseActivityCmd.Flags().Int("limit", 50, "Maximum number of entries")

	caseCmd.AddCommand(caseFileCmd)
	caseCmd.AddCommand(caseListCmd)
	caseCmd.AddCommand(caseSearchCmd)
	caseCmd.AddCommand(caseShowCmd)
	caseCmd.AddCommand(caseStatusCmd)
	caseCmd.AddCommand(caseAssignCmd)
	caseCmd.AddCommand(caseResolveCmd)
	caseCmd.AddCommand(caseArchiveCmd)
	caseCmd.AddCommand(caseDeleteCmd)
	caseCmd.AddCommand(caseTimelineCmd)
	caseCmd.AddCommand(caseActivityCmd)
	caseCmd.AddCommand(caseDashboardCmd)
}

// CaseCmd returns the case command
func CaseCmd() *cobra.Command {
	return caseCmd
}
