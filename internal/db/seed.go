package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/models"
)

// DefaultStatuses is the status catalog seeded on first run, one entry per case status.
func DefaultStatuses() []models.Status {
	colors := map[blotter.Status]string{
		blotter.StatusPending:            "#F59E0B",
		blotter.StatusUnderInvestigation: "#3B82F6",
		blotter.StatusForMediation:       "#8B5CF6",
		blotter.StatusMediationOngoing:   "#A855F7",
		blotter.StatusSettled:            "#10B981",
		blotter.StatusForLupon:           "#EC4899",
		blotter.StatusReferredToCourt:    "#EF4444",
		blotter.StatusResolved:           "#22C55E",
		blotter.StatusArchived:           "#6B7280",
		blotter.StatusClosed:             "#374151",
	}
	descriptions := map[blotter.Status]string{
		blotter.StatusPending:            "Filed and awaiting action",
		blotter.StatusUnderInvestigation: "Officers are gathering facts",
		blotter.StatusForMediation:       "Waiting for a mediation session",
		blotter.StatusMediationOngoing:   "Mediation sessions in progress",
		blotter.StatusSettled:            "Parties reached a settlement",
		blotter.StatusForLupon:           "Endorsed to the Lupon Tagapamayapa",
		blotter.StatusReferredToCourt:    "Referred to the proper court",
		blotter.StatusResolved:           "Resolution recorded",
		blotter.StatusArchived:           "Resolved and removed from active listings",
		blotter.StatusClosed:             "Closed by administrative override",
	}
	out := make([]models.Status, 0, len(blotter.Statuses()))
	for i, st := range blotter.Statuses() {
		out = append(out, models.Status{
			Name:        string(st),
			Description: descriptions[st],
			Color:       colors[st],
			SortOrder:   i + 1,
			IsActive:    true,
		})
	}
	return out
}

// SeedFixtures populates a store with development fixtures: officers, a clerk
// account, persons and a handful of cases at different workflow stages.
// It writes directly so it can run before the service layer exists.
func SeedFixtures(ctx context.Context, database *sql.DB) error {
	now := time.Now().UTC()
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Accounts
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, passwordHash, firstName, lastName, role, createdAt) VALUES (?, ?, ?, ?, ?, ?)",
		"clerk.dev", "!fixture-no-login", "Ana", "Reyes", "Clerk", now)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	clerkID, _ := res.LastInsertId()

	res, err = tx.ExecContext(ctx,
		"INSERT INTO users (username, passwordHash, firstName, lastName, role, createdAt) VALUES (?, ?, ?, ?, ?, ?)",
		"officer.dev", "!fixture-no-login", "Jose", "Garcia", "Officer", now)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	officerUserID, _ := res.LastInsertId()

	// Officers
	officers := []struct {
		name, badge, rank string
		userID            any
	}{
		{"Jose Garcia", "PNP-1001", "PO2", officerUserID},
		{"Liza Mendoza", "PNP-1002", "SPO1", nil},
	}
	var officerIDs []int64
	for _, o := range officers {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO officers (name, badgeNumber, rank, userId, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?)",
			o.name, o.badge, o.rank, o.userID, now, now)
		if err != nil {
			return fmt.Errorf("seed officers: %w", err)
		}
		id, _ := res.LastInsertId()
		officerIDs = append(officerIDs, id)
	}

	// Persons
	persons := []struct{ first, last, contact, kind string }{
		{"Juan", "Dela Cruz", "09171234567", "Complainant"},
		{"Pedro", "Santos", "09181112222", "Respondent"},
		{"Rosa", "Villanueva", "", "Witness"},
	}
	var personIDs []int64
	for _, p := range persons {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO persons (firstName, lastName, contactNumber, personType, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?)",
			p.first, p.last, p.contact, p.kind, now, now)
		if err != nil {
			return fmt.Errorf("seed persons: %w", err)
		}
		id, _ := res.LastInsertId()
		personIDs = append(personIDs, id)
	}

	// Cases
	year := now.Year()
	cases := []struct {
		incident, narrative, location, status, priority, assigned string
	}{
		{"Noise Complaint", "Loud karaoke past curfew", "Purok 2", string(blotter.StatusPending), "Low", "[]"},
		{"Boundary Dispute", "Fence moved half a meter into neighbor's lot", "Sitio Malinis", string(blotter.StatusMediationOngoing), "Normal", fmt.Sprintf("[%d]", officerIDs[0])},
		{"Theft", "Bicycle taken from the chapel yard", "Chapel grounds", string(blotter.StatusUnderInvestigation), "High", fmt.Sprintf("[%d,%d]", officerIDs[0], officerIDs[1])},
	}
	var caseIDs []int64
	for i, c := range cases {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO blotter_reports (caseNumber, incidentType, narrative, incidentLocation, incidentDate, dateFiled,
				status, priority, complainantName, complainantContact, filedByUserId, assignedOfficerIds, createdAt, updatedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fmt.Sprintf("%d-%03d", year, i+1), c.incident, c.narrative, c.location, now, now,
			c.status, c.priority, "Juan Dela Cruz", "09171234567", clerkID, c.assigned, now, now)
		if err != nil {
			return fmt.Errorf("seed cases: %w", err)
		}
		id, _ := res.LastInsertId()
		caseIDs = append(caseIDs, id)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO case_timeline (blotterReportId, eventType, title, description, performedBy, createdAt) VALUES (?, 'CASE_CREATED', 'Case filed', ?, 'seed', ?)",
			id, c.narrative, now); err != nil {
			return fmt.Errorf("seed timeline: %w", err)
		}
	}

	// Respondent, hearing and mediation on the boundary dispute
	res, err = tx.ExecContext(ctx,
		"INSERT INTO respondents (blotterReportId, personId, accusation, cooperationStatus, appearanceDate, createdAt, updatedAt) VALUES (?, ?, ?, 'Appeared', ?, ?, ?)",
		caseIDs[1], personIDs[1], "Encroachment", now, now, now)
	if err != nil {
		return fmt.Errorf("seed respondents: %w", err)
	}
	respondentID, _ := res.LastInsertId()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO summons (blotterReportId, respondentId, summonsNumber, issuedDate, appearanceDate, deliveryStatus, deliveredDate, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, 'Delivered', ?, ?, ?)",
		caseIDs[1], respondentID, fmt.Sprintf("SUM-%d-002-01", year), now, now.Add(72*time.Hour), now, now, now); err != nil {
		return fmt.Errorf("seed summons: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO hearings (blotterReportId, hearingDate, location, purpose, createdAt, updatedAt) VALUES (?, ?, 'Barangay Hall', 'Initial hearing', ?, ?)",
		caseIDs[1], now.Add(96*time.Hour), now, now); err != nil {
		return fmt.Errorf("seed hearings: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO mediation_sessions (blotterReportId, sessionDate, location, mediatorName, createdAt, updatedAt) VALUES (?, ?, 'Barangay Hall', 'Lupon Chair', ?, ?)",
		caseIDs[1], now.Add(120*time.Hour), now, now); err != nil {
		return fmt.Errorf("seed mediation: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO witnesses (blotterReportId, personId, firstName, lastName, statement, createdAt) VALUES (?, ?, 'Rosa', 'Villanueva', 'Saw the bicycle taken at noon', ?)",
		caseIDs[2], personIDs[2], now); err != nil {
		return fmt.Errorf("seed witnesses: %w", err)
	}

	// Templates
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO case_templates (name, incidentType, narrativeTemplate, defaultPriority, createdAt, updatedAt) VALUES (?, ?, ?, 'Low', ?, ?)",
		"noise", "Noise Complaint", "Complainant reports excessive noise from {location} at {time}.", now, now); err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}

	return tx.Commit()
}
