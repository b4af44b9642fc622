package app

import (
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/models"
)

// changedCaseFields names the editable fields that differ between two versions of a case.
func changedCaseFields(before, after *models.Case) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("incident type", before.IncidentType != after.IncidentType)
	add("narrative", before.Narrative != after.Narrative)
	add("incident location", before.IncidentLocation != after.IncidentLocation)
	add("incident date", !before.IncidentDate.Equal(after.IncidentDate))
	add("priority", before.Priority != after.Priority)
	add("complainant name", before.ComplainantName != after.ComplainantName)
	add("complainant contact", before.ComplainantContact != after.ComplainantContact)
	add("complainant address", before.ComplainantAddress != after.ComplainantAddress)
	return changed
}

func caseEditedEffects(before, after *models.Case, performedBy string, now time.Time) []effects.Effect {
	return blotter.EditEffects(after.ID, after.CaseNumber, changedCaseFields(before, after), performedBy, now)
}

func caseDeletedEffects(c *models.Case, performedBy string, now time.Time) []effects.Effect {
	return blotter.DeletedEffects(c.CaseNumber, performedBy, now)
}
