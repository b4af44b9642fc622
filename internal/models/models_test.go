package models

import (
	"testing"
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/errs"
)

func validCase() *Case {
	return &Case{
		CaseNumber:       "2024-001",
		IncidentType:     "Disturbance",
		Narrative:        "Noise complaint",
		IncidentLocation: "Purok 3",
		Status:           blotter.StatusPending,
		Priority:         PriorityNormal,
		ComplainantName:  "Maria Santos",
	}
}

func TestCaseValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Case)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Case) {}},
		{name: "blank narrative", mutate: func(c *Case) { c.Narrative = "  " }, wantErr: true},
		{name: "blank location", mutate: func(c *Case) { c.IncidentLocation = "" }, wantErr: true},
		{name: "blank complainant", mutate: func(c *Case) { c.ComplainantName = "" }, wantErr: true},
		{name: "malformed case number", mutate: func(c *Case) { c.CaseNumber = "24-1" }, wantErr: true},
		{name: "generated later", mutate: func(c *Case) { c.CaseNumber = "" }},
		{name: "free text status", mutate: func(c *Case) { c.Status = "Done" }, wantErr: true},
		{name: "unknown priority", mutate: func(c *Case) { c.Priority = "Whenever" }, wantErr: true},
		{name: "duplicate officer", mutate: func(c *Case) { c.AssignedOfficerIDs = []int64{1, 1} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCase()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr && !errs.IsKind(err, errs.KindValidation) {
				t.Errorf("Validate() = %v, want validation error", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestCaseCloneDoesNotShareSlices(t *testing.T) {
	uid := int64(4)
	c := validCase()
	c.AssignedOfficerIDs = []int64{1, 2}
	c.FiledByUserID = &uid

	cp := c.Clone()
	cp.AssignedOfficerIDs[0] = 99
	*cp.FiledByUserID = 7

	if c.AssignedOfficerIDs[0] != 1 {
		t.Error("clone shares officer slice with original")
	}
	if *c.FiledByUserID != 4 {
		t.Error("clone shares filer pointer with original")
	}
}

func TestParsePriorityDefaultsToNormal(t *testing.T) {
	p, err := ParsePriority("")
	if err != nil || p != PriorityNormal {
		t.Errorf("ParsePriority(\"\") = %q, %v", p, err)
	}
	p, err = ParsePriority("urgent")
	if err != nil || p != PriorityUrgent {
		t.Errorf("ParsePriority(urgent) = %q, %v", p, err)
	}
}

func TestSummonsValidateRejectsUndeliveredCompliance(t *testing.T) {
	s := &Summons{
		CaseID:         1,
		RespondentID:   2,
		AppearanceDate: time.Now(),
		DeliveryStatus: summons.DeliveryPending,
		Complied:       true,
	}
	if err := s.Validate(); !errs.IsKind(err, errs.KindValidation) {
		t.Errorf("Validate() = %v, want validation error", err)
	}
}

func TestStatusValidateColor(t *testing.T) {
	if err := (&Status{Name: "Pending", Color: "#FFA500"}).Validate(); err != nil {
		t.Errorf("valid color rejected: %v", err)
	}
	if err := (&Status{Name: "Pending", Color: "orange"}).Validate(); err == nil {
		t.Error("expected invalid color to be rejected")
	}
}

func TestPersonKeyNormalize(t *testing.T) {
	k := PersonKey{FirstName: " Juan ", LastName: "Dela Cruz ", ContactNumber: " 09171234567"}.Normalize()
	if k.FirstName != "Juan" || k.LastName != "Dela Cruz" || k.ContactNumber != "09171234567" {
		t.Errorf("Normalize() = %+v", k)
	}
}
