package reports

import (
	"context"
	"testing"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/pagination"
	"github.com/artorders/artorders-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubReportsRepo struct {
	created *models.Report
}

func (s *stubReportsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubReportsRepo) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	report.ID = uuid.New()
	s.created = report
	return report, nil
}

func (s *stubReportsRepo) List(ctx context.Context, params pagination.Params) ([]models.Report, string, error) {
	return nil, "", nil
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code())
	}
}

func TestCreateStoresSingleTargetReport(t *testing.T) {
	repo := &stubReportsRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	target := uuid.New()
	report, err := svc.Create(context.Background(), CreateInput{
		Actor:         visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer},
		TargetType:    enums.ReportTargetMasterpiece,
		MasterpieceID: &target,
		Description:   "plagiarized artwork",
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if report.MasterpieceID == nil || *report.MasterpieceID != target {
		t.Fatal("target not stored")
	}
}

func TestCreateRejectsMultipleTargets(t *testing.T) {
	svc, _ := NewService(&stubReportsRepo{})

	userID := uuid.New()
	orderID := uuid.New()
	_, err := svc.Create(context.Background(), CreateInput{
		Actor:       visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer},
		TargetType:  enums.ReportTargetUser,
		UserID:      &userID,
		OrderID:     &orderID,
		Description: "spam",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRejectsTargetTypeMismatch(t *testing.T) {
	svc, _ := NewService(&stubReportsRepo{})

	orderID := uuid.New()
	_, err := svc.Create(context.Background(), CreateInput{
		Actor:       visibility.Viewer{UserID: uuid.New(), Role: enums.RoleCustomer},
		TargetType:  enums.ReportTargetUser,
		OrderID:     &orderID,
		Description: "spam",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}
