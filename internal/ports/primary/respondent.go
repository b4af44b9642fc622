package primary

import (
	"context"
	"time"

	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/models"
)

// RespondentService defines the primary port for respondents and their statements.
type RespondentService interface {
	// AddRespondent attaches a respondent in Notified, optionally linking a Person.
	AddRespondent(ctx context.Context, req AddRespondentRequest) (*models.Respondent, error)

	GetRespondent(ctx context.Context, respondentID int64) (*models.Respondent, error)

	// UpdateRespondent replaces descriptive fields. Cooperation status and its dates
	// change only through the workflow methods.
	UpdateRespondent(ctx context.Context, r *models.Respondent) (*models.Respondent, error)

	RemoveRespondent(ctx context.Context, respondentID int64) error
	ListRespondents(ctx context.Context, caseID int64) ([]*models.Respondent, error)

	// MarkAsAppeared moves Notified or No Response to Appeared, stamping appearanceDate.
	MarkAsAppeared(ctx context.Context, respondentID int64, at time.Time) (*models.Respondent, error)

	// MarkNoResponse moves Notified to No Response.
	MarkNoResponse(ctx context.Context, respondentID int64) (*models.Respondent, error)

	// RecordStatement stores a statement and moves Appeared to Statement Recorded.
	RecordStatement(ctx context.Context, req RecordStatementRequest) (*models.RespondentStatement, error)

	// VerifyStatement freezes a statement. Only officer notes may change afterwards.
	VerifyStatement(ctx context.Context, statementID int64, verifiedBy string) (*models.RespondentStatement, error)

	// EditStatement replaces a statement's text, channel and notes.
	EditStatement(ctx context.Context, s *models.RespondentStatement) (*models.RespondentStatement, error)

	ListStatements(ctx context.Context, respondentID int64) ([]*models.RespondentStatement, error)

	// CountByCooperationStatus counts respondents per status; caseID 0 counts all cases.
	CountByCooperationStatus(ctx context.Context, caseID int64) (map[respondent.CooperationStatus]int, error)
}

// AddRespondentRequest contains parameters for attaching a respondent.
type AddRespondentRequest struct {
	CaseID                    int64
	Accusation                string
	RelationshipToComplainant string
	Person                    *PersonRef // nil leaves the respondent unlinked
}

// RecordStatementRequest contains parameters for recording a statement.
type RecordStatementRequest struct {
	RespondentID int64
	Statement    string
	SubmittedVia string
	SubmittedAt  time.Time // defaults to now
	OfficerNotes string
}
