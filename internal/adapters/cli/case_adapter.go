// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
)

// CaseAdapter is a thin adapter that translates CLI operations to CaseService calls.
// It depends only on the CaseService interface, enabling easy testing with mocks.
type CaseAdapter struct {
	service primary.CaseService
	out     io.Writer
}

// NewCaseAdapter creates a new CaseAdapter with the given service.
func NewCaseAdapter(service primary.CaseService, out io.Writer) *CaseAdapter {
	return &CaseAdapter{
		service: service,
		out:     out,
	}
}

var statusColors = map[blotter.Status]color.Attribute{
	blotter.StatusPending:            color.FgYellow,
	blotter.StatusUnderInvestigation: color.FgBlue,
	blotter.StatusForMediation:       color.FgMagenta,
	blotter.StatusMediationOngoing:   color.FgHiMagenta,
	blotter.StatusSettled:            color.FgGreen,
	blotter.StatusForLupon:           color.FgHiRed,
	blotter.StatusReferredToCourt:    color.FgRed,
	blotter.StatusResolved:           color.FgHiGreen,
	blotter.StatusArchived:           color.FgHiBlack,
	blotter.StatusClosed:             color.FgWhite,
}

// StatusBadge renders a case status in its display color.
func StatusBadge(s blotter.Status) string {
	attr, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return color.New(attr).Sprint(string(s))
}

// File files a new case.
func (a *CaseAdapter) File(ctx context.Context, req primary.FileCaseRequest) (*models.Case, error) {
	c, err := a.service.FileCase(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Filed case %s (id %d) %s\n", c.CaseNumber, c.ID, StatusBadge(c.Status))
	return c, nil
}

// List lists cases matching the filters.
func (a *CaseAdapter) List(ctx context.Context, filters models.CaseFilters) error {
	cases, err := a.service.ListCases(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}
	a.PrintCases(cases)
	return nil
}

// PrintCases writes the case table. Watch reuses it for every refresh.
func (a *CaseAdapter) PrintCases(cases []*models.Case) {
	if len(cases) == 0 {
		fmt.Fprintln(a.out, "No cases found")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tSTATUS\tPRIORITY\tTYPE\tCOMPLAINANT\tFILED")
	fmt.Fprintln(w, "--\t------\t------\t--------\t----\t-----------\t-----")
	for _, c := range cases {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.CaseNumber, StatusBadge(c.Status), c.Priority, c.IncidentType, c.ComplainantName, c.DateFiled.Format("2006-01-02"))
	}
	w.Flush()
}

// Show displays details for a single case.
func (a *CaseAdapter) Show(ctx context.Context, caseID int64) (*models.Case, error) {
	c, err := a.service.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	fmt.Fprintf(a.out, "\nCase:      %s (id %d)\n", c.CaseNumber, c.ID)
	fmt.Fprintf(a.out, "Status:    %s\n", StatusBadge(c.Status))
	fmt.Fprintf(a.out, "Priority:  %s\n", c.Priority)
	fmt.Fprintf(a.out, "Incident:  %s at %s\n", c.IncidentType, c.IncidentLocation)
	if !c.IncidentDate.IsZero() {
		fmt.Fprintf(a.out, "Occurred:  %s\n", c.IncidentDate.Format(time.RFC3339))
	}
	fmt.Fprintf(a.out, "Filed:     %s\n", c.DateFiled.Format(time.RFC3339))
	fmt.Fprintf(a.out, "Complainant: %s", c.ComplainantName)
	if c.ComplainantContact != "" {
		fmt.Fprintf(a.out, " (%s)", c.ComplainantContact)
	}
	fmt.Fprintln(a.out)
	if len(c.AssignedOfficerIDs) > 0 {
		ids := make([]string, 0, len(c.AssignedOfficerIDs))
		for _, id := range c.AssignedOfficerIDs {
			ids = append(ids, fmt.Sprint(id))
		}
		fmt.Fprintf(a.out, "Officers:  %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(a.out, "\n%s\n\n", c.Narrative)

	return c, nil
}

// ChangeStatus moves a case along the workflow.
func (a *CaseAdapter) ChangeStatus(ctx context.Context, caseID int64, target blotter.Status, remarks string) error {
	c, err := a.service.ChangeStatus(ctx, primary.ChangeStatusRequest{
		CaseID:  caseID,
		Target:  target,
		Remarks: remarks,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Case %s is now %s\n", c.CaseNumber, StatusBadge(c.Status))
	return nil
}

// Resolve records the resolution of a case.
func (a *CaseAdapter) Resolve(ctx context.Context, req primary.CreateResolutionRequest) error {
	r, err := a.service.CreateResolution(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Case %d resolved (%s) by %s\n", r.CaseID, r.ResolutionType, r.ResolvedBy)
	return nil
}

// Timeline prints the case timeline, oldest entry first.
func (a *CaseAdapter) Timeline(ctx context.Context, caseID int64) error {
	entries, err := a.service.Timeline(ctx, caseID, true)
	if err != nil {
		return fmt.Errorf("failed to load timeline: %w", err)
	}
	a.PrintTimeline(entries)
	return nil
}

// PrintTimeline writes timeline entries one per line.
func (a *CaseAdapter) PrintTimeline(entries []*models.CaseTimeline) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No timeline entries")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s  %-18s %s", e.CreatedAt.Format("2006-01-02 15:04"), e.EventType, e.Title)
		if e.PerformedBy != "" {
			fmt.Fprintf(a.out, " (%s)", e.PerformedBy)
		}
		fmt.Fprintln(a.out)
	}
}

// Dashboard prints the live counters.
func (a *CaseAdapter) Dashboard(ctx context.Context, now time.Time) error {
	d, err := a.service.Dashboard(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to compute dashboard: %w", err)
	}

	fmt.Fprintf(a.out, "\nActive cases:        %d\n", d.ActiveCases)
	fmt.Fprintf(a.out, "Uncomplied summonses: %d\n", d.UncompliedSummons)
	fmt.Fprintf(a.out, "Unread notifications: %d\n\n", d.UnreadNotifications)

	statuses := make([]blotter.Status, 0, len(d.ByStatus))
	for s := range d.ByStatus {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%d\n", StatusBadge(s), d.ByStatus[s])
	}
	w.Flush()

	if len(d.UpcomingHearings) > 0 {
		fmt.Fprintln(a.out, "\nUpcoming hearings:")
		for _, h := range d.UpcomingHearings {
			fmt.Fprintf(a.out, "  %s  case %d at %s\n", h.HearingDate.Format("2006-01-02 15:04"), h.CaseID, h.Location)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}
