package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/blotter/internal/wire"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Search the person directory",
}

var personSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search persons by name or contact number",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		persons, err := wire.PersonService().SearchPersons(NewContext(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		if len(persons) == 0 {
			fmt.Println("No persons found.")
			return nil
		}
		for _, p := range persons {
			fmt.Printf("%d  %-30s %-14s %s\n", p.ID, p.FullName(), p.ContactNumber, p.PersonType)
		}
		return nil
	},
}

var personHistoryCmd = &cobra.Command{
	Use:   "history [person-id]",
	Short: "Show the roles a person has had across cases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("person", args[0])
		if err != nil {
			return err
		}
		ctx := NewContext()
		p, err := wire.PersonService().GetPerson(ctx, id)
		if err != nil {
			return err
		}
		history, err := wire.PersonService().History(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", p.FullName(), p.ContactNumber)
		if len(history) == 0 {
			fmt.Println("  No case history.")
			return nil
		}
		for _, h := range history {
			fmt.Printf("  %s  case %d  %-11s %s\n", h.CreatedAt.Format("2006-01-02"), h.CaseID, h.Role, h.Description)
		}
		return nil
	},
}

func init() {
	personSearchCmd.Flags().Int("limit", 20, "Maximum number of results")

	personCmd.AddCommand(personSearchCmd)
	personCmd.AddCommand(personHistoryCmd)
}

// PersonCmd returns the person command
func PersonCmd() *cobra.Command {
	return personCmd
}
