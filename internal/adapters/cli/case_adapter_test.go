package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockCaseService implements primary.CaseService for testing
type mockCaseService struct {
	fileCaseFn     func(ctx context.Context, req primary.FileCaseRequest) (*models.Case, error)
	listCasesFn    func(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error)
	getCaseFn      func(ctx context.Context, caseID int64) (*models.Case, error)
	changeStatusFn func(ctx context.Context, req primary.ChangeStatusRequest) (*models.Case, error)
	dashboardFn    func(ctx context.Context, now time.Time) (*primary.Dashboard, error)

	// Track calls for verification
	lastFileReq   primary.FileCaseRequest
	lastStatusReq primary.ChangeStatusRequest
}

var _ primary.CaseService = (*mockCaseService)(nil)

func (m *mockCaseService) FileCase(ctx context.Context, req primary.FileCaseRequest) (*models.Case, error) {
	m.lastFileReq = req
	if m.fileCaseFn != nil {
		return m.fileCaseFn(ctx, req)
	}
	return &models.Case{ID: 1, CaseNumber: "2026-001", Status: blotter.StatusPending}, nil
}

func (m *mockCaseService) FileFromTemplate(ctx context.Context, req primary.FileFromTemplateRequest) (*models.Case, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) GetCase(ctx context.Context, caseID int64) (*models.Case, error) {
	if m.getCaseFn != nil {
		return m.getCaseFn(ctx, caseID)
	}
	return &models.Case{ID: caseID, CaseNumber: "2026-001", Status: blotter.StatusPending, Narrative: "Test narrative"}, nil
}

func (m *mockCaseService) GetCaseByNumber(ctx context.Context, caseNumber string) (*models.Case, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) ListCases(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error) {
	if m.listCasesFn != nil {
		return m.listCasesFn(ctx, filters)
	}
	return []*models.Case{}, nil
}

func (m *mockCaseService) SearchCases(ctx context.Context, query string, limit int) ([]*models.Case, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) UpdateCase(ctx context.Context, c *models.Case) (*models.Case, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) ChangeStatus(ctx context.Context, req primary.ChangeStatusRequest) (*models.Case, error) {
	m.lastStatusReq = req
	if m.changeStatusFn != nil {
		return m.changeStatusFn(ctx, req)
	}
	return &models.Case{ID: req.CaseID, CaseNumber: "2026-001", Status: req.Target}, nil
}

func (m *mockCaseService) AssignOfficers(ctx context.Context, caseID int64, officerIDs []int64) (*models.Case, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) CreateResolution(ctx context.Context, req primary.CreateResolutionRequest) (*models.Resolution, error) {
	return &models.Resolution{CaseID: req.CaseID, ResolutionType: req.ResolutionType, ResolvedBy: "clerk"}, nil
}

func (m *mockCaseService) GetResolution(ctx context.Context, caseID int64) (*models.Resolution, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) ArchiveCase(ctx context.Context, caseID int64) (*models.Case, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) DeleteCase(ctx context.Context, caseID int64) error {
	return errors.New("not implemented in adapter")
}

func (m *mockCaseService) Timeline(ctx context.Context, caseID int64, oldestFirst bool) ([]*models.CaseTimeline, error) {
	return []*models.CaseTimeline{}, nil
}

func (m *mockCaseService) Activity(ctx context.Context, caseID int64, limit int) ([]*models.ActivityLog, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockCaseService) Dashboard(ctx context.Context, now time.Time) (*primary.Dashboard, error) {
	if m.dashboardFn != nil {
		return m.dashboardFn(ctx, now)
	}
	return &primary.Dashboard{ByStatus: map[blotter.Status]int{}}, nil
}

func (m *mockCaseService) WatchCases(ctx context.Context, filters models.CaseFilters) <-chan []*models.Case {
	return nil
}

func (m *mockCaseService) WatchTimeline(ctx context.Context, caseID int64) <-chan []*models.CaseTimeline {
	return nil
}

func TestCaseAdapter_File(t *testing.T) {
	mock := &mockCaseService{}
	var buf bytes.Buffer
	adapter := NewCaseAdapter(mock, &buf)

	_, err := adapter.File(context.Background(), primary.FileCaseRequest{IncidentType: "Theft", Narrative: "Bicycle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastFileReq.IncidentType != "Theft" {
		t.Errorf("expected incident type 'Theft', got %q", mock.lastFileReq.IncidentType)
	}
	if !strings.Contains(buf.String(), "Filed case 2026-001") {
		t.Errorf("expected output to contain case number, got: %s", buf.String())
	}
}

func TestCaseAdapter_File_Error(t *testing.T) {
	mock := &mockCaseService{
		fileCaseFn: func(ctx context.Context, req primary.FileCaseRequest) (*models.Case, error) {
			return nil, errors.New("narrative is required")
		},
	}
	var buf bytes.Buffer
	adapter := NewCaseAdapter(mock, &buf)

	_, err := adapter.File(context.Background(), primary.FileCaseRequest{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on error, got: %s", buf.String())
	}
}

func TestCaseAdapter_List(t *testing.T) {
	mock := &mockCaseService{
		listCasesFn: func(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error) {
			return []*models.Case{
				{ID: 1, CaseNumber: "2026-001", Status: blotter.StatusPending, IncidentType: "Theft"},
				{ID: 2, CaseNumber: "2026-002", Status: blotter.StatusSettled, IncidentType: "Noise"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCaseAdapter(mock, &buf)

	if err := adapter.List(context.Background(), models.CaseFilters{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"2026-001", "2026-002", "Pending", "Settled"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestCaseAdapter_List_Empty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewCaseAdapter(&mockCaseService{}, &buf)

	if err := adapter.List(context.Background(), models.CaseFilters{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No cases found") {
		t.Errorf("expected 'No cases found', got: %s", buf.String())
	}
}

func TestCaseAdapter_ChangeStatus(t *testing.T) {
	mock := &mockCaseService{}
	var buf bytes.Buffer
	adapter := NewCaseAdapter(mock, &buf)

	err := adapter.ChangeStatus(context.Background(), 7, blotter.StatusForMediation, "parties agreed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastStatusReq.CaseID != 7 || mock.lastStatusReq.Remarks != "parties agreed" {
		t.Errorf("unexpected request: %+v", mock.lastStatusReq)
	}
	if !strings.Contains(buf.String(), "now For Mediation") {
		t.Errorf("expected new status in output, got: %s", buf.String())
	}
}

func TestCaseAdapter_Dashboard(t *testing.T) {
	mock := &mockCaseService{
		dashboardFn: func(ctx context.Context, now time.Time) (*primary.Dashboard, error) {
			return &primary.Dashboard{
				ByStatus:          map[blotter.Status]int{blotter.StatusPending: 3},
				ActiveCases:       3,
				UncompliedSummons: 1,
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewCaseAdapter(mock, &buf)

	if err := adapter.Dashboard(context.Background(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Active cases:        3") {
		t.Errorf("expected active count, got: %s", output)
	}
	if !strings.Contains(output, "Pending") {
		t.Errorf("expected status breakdown, got: %s", output)
	}
}

func TestStatusBadge_UnknownStatusIsPlain(t *testing.T) {
	if got := StatusBadge("Lost"); got != "Lost" {
		t.Errorf("expected plain text, got %q", got)
	}
}
