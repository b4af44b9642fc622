package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/wire"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage case templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates, most used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := wire.TemplateService().ListTemplates(NewContext())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No templates found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tPRIORITY\tUSED")
		fmt.Fprintln(w, "--\t----\t----\t--------\t----")
		for _, t := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", t.ID, t.Name, t.IncidentType, t.DefaultPriority, t.UsageCount)
		}
		w.Flush()
		return nil
	},
}

var templateImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Create or update templates from a YAML file",
	Long: `Import templates from a YAML document of the form:

  templates:
    - name: Noise
      incidentType: Noise Complaint
      narrative: Loud music reported after 10 PM
      priority: Low

Templates are matched by name. Nothing is written if any entry is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open template file: %w", err)
		}
		defer f.Close()

		res, err := wire.TemplateService().ImportTemplates(NewContext(), f)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Imported templates: %d created, %d updated\n", res.Created, res.Updated)
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateImportCmd)
}

// TemplateCmd returns the template command
func TemplateCmd() *cobra.Command {
	return templateCmd
}
