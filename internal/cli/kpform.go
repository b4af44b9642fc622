package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/core/kpform"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/wire"
)

var kpformCmd = &cobra.Command{
	Use:   "kpform",
	Short: "Manage Katarungang Pambarangay forms",
}

var kpformCreateCmd = &cobra.Command{
	Use:   "create [case-id] [form-type]",
	Short: "Create a draft form for a case",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		f, err := wire.KPFormService().CreateForm(NewContext(), &models.KPForm{CaseID: caseID, FormType: args[1], Notes: notes})
		if err != nil {
			return fmt.Errorf("failed to create form: %w", err)
		}
		fmt.Printf("✓ Created form %d: %s (%s)\n", f.ID, f.Title, f.DocumentRef)
		return nil
	},
}

var kpformTransitionCmd = &cobra.Command{
	Use:   "transition [form-id] [Issued|Filed|Cancelled]",
	Short: "Move a form along its lifecycle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("form", args[0])
		if err != nil {
			return err
		}
		target, err := kpform.ParseStatus(args[1])
		if err != nil {
			return err
		}
		f, err := wire.KPFormService().TransitionForm(NewContext(), id, target)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Form %d is now %s\n", f.ID, f.Status)
		return nil
	},
}

var kpformListCmd = &cobra.Command{
	Use:   "list [case-id]",
	Short: "List the forms of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, err := parseID("case", args[0])
		if err != nil {
			return err
		}
		forms, err := wire.KPFormService().ListForms(NewContext(), caseID)
		if err != nil {
			return err
		}
		if len(forms) == 0 {
			fmt.Println("No forms found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tISSUED\tDOCUMENT")
		fmt.Fprintln(w, "--\t----\t------\t------\t--------")
		for _, f := range forms {
			issued := "-"
			if f.IssuedDate != nil {
				issued = f.IssuedDate.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.FormType, f.Status, issued, f.DocumentRef)
		}
		w.Flush()
		return nil
	},
}

func init() {
	kpformCreateCmd.Flags().String("notes", "", "Notes on the form")

	kpformCmd.AddCommand(kpformCreateCmd)
	kpformCmd.AddCommand(kpformTransitionCmd)
	kpformCmd.AddCommand(kpformListCmd)
}

// KPFormCmd returns the kpform command
func KPFormCmd() *cobra.Command {
	return kpformCmd
}
