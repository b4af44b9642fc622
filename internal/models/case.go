package models

import (
	"regexp"
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/errs"
)

var caseNumberPattern = regexp.MustCompile(`^\d{4}-\d{3,}$`)

// Case is a blotter report, the root entity every sub-record hangs off.
type Case struct {
	ID                 int64
	CaseNumber         string
	IncidentType       string
	Narrative          string
	IncidentLocation   string
	IncidentDate       time.Time
	DateFiled          time.Time
	Status             blotter.Status
	Priority           Priority
	ComplainantName    string
	ComplainantContact string
	ComplainantAddress string
	FiledByUserID      *int64
	AssignedOfficerIDs []int64
	IsArchived         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Clone returns a deep copy.
func (c *Case) Clone() *Case {
	cp := *c
	cp.AssignedOfficerIDs = cloneIDs(c.AssignedOfficerIDs)
	if c.FiledByUserID != nil {
		id := *c.FiledByUserID
		cp.FiledByUserID = &id
	}
	return &cp
}

// Validate checks intake constraints.
func (c *Case) Validate() error {
	switch {
	case blank(c.Narrative):
		return errs.Validation("case", "narrative is required")
	case blank(c.IncidentLocation):
		return errs.Validation("case", "incident location is required")
	case blank(c.IncidentType):
		return errs.Validation("case", "incident type is required")
	case blank(c.ComplainantName):
		return errs.Validation("case", "complainant name is required")
	}
	if c.CaseNumber != "" && !caseNumberPattern.MatchString(c.CaseNumber) {
		return errs.Validation("case", "case number %q must look like YYYY-NNN", c.CaseNumber)
	}
	if !c.Status.Valid() {
		return errs.Validation("case", "unknown case status %q", c.Status)
	}
	if _, err := ParsePriority(string(c.Priority)); err != nil {
		return err
	}
	seen := make(map[int64]bool, len(c.AssignedOfficerIDs))
	for _, id := range c.AssignedOfficerIDs {
		if id <= 0 {
			return errs.Validation("case", "invalid officer id %d", id)
		}
		if seen[id] {
			return errs.Validation("case", "officer %d assigned twice", id)
		}
		seen[id] = true
	}
	return nil
}

// CaseFilters narrows case listings. Archived cases are excluded unless IncludeArchived.
type CaseFilters struct {
	Status          blotter.Status
	OfficerID       int64
	FiledByUserID   int64
	IncludeArchived bool
	Limit           int
}

// Resolution is the terminal record of a case. At most one exists per case.
type Resolution struct {
	ID                int64
	CaseID            int64
	ResolutionType    string
	ResolutionDetails string
	ResolvedBy        string
	ResolvedDate      time.Time
	CreatedAt         time.Time
}

// Validate checks required fields.
func (r *Resolution) Validate() error {
	switch {
	case r.CaseID <= 0:
		return errs.Validation("resolution", "case id is required")
	case blank(r.ResolutionType):
		return errs.Validation("resolution", "resolution type is required")
	case blank(r.ResolvedBy):
		return errs.Validation("resolution", "resolvedBy is required")
	}
	return nil
}

// CaseTemplate is a reusable narrative skeleton.
type CaseTemplate struct {
	ID                int64
	Name              string
	IncidentType      string
	NarrativeTemplate string
	DefaultPriority   Priority
	UsageCount        int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks required fields.
func (t *CaseTemplate) Validate() error {
	switch {
	case blank(t.Name):
		return errs.Validation("case template", "name is required")
	case blank(t.IncidentType):
		return errs.Validation("case template", "incident type is required")
	case blank(t.NarrativeTemplate):
		return errs.Validation("case template", "narrative template is required")
	case t.UsageCount < 0:
		return errs.Validation("case template", "usage count cannot be negative")
	}
	_, err := ParsePriority(string(t.DefaultPriority))
	return err
}
