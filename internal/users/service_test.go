package users

import (
	"context"
	"testing"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserReader struct {
	user  *models.User
	stats *ArtistStats
}

func (s *stubUserReader) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserReader) ArtistStats(ctx context.Context, artistID uuid.UUID) (*ArtistStats, error) {
	return s.stats, nil
}

func TestGetArtistStatsRejectsCustomers(t *testing.T) {
	repo := &stubUserReader{user: &models.User{ID: uuid.New(), Role: enums.RoleCustomer}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.GetArtistStats(context.Background(), repo.user.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetArtistStatsReturnsAggregates(t *testing.T) {
	avg := 4.5
	artistID := uuid.New()
	repo := &stubUserReader{
		user: &models.User{ID: artistID, Role: enums.RoleArtist},
		stats: &ArtistStats{
			ArtistID:        artistID,
			AverageRate:     &avg,
			RatedPieces:     2,
			CompletedOrders: 2,
		},
	}
	svc, _ := NewService(repo)

	stats, err := svc.GetArtistStats(context.Background(), artistID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.AverageRate == nil || *stats.AverageRate != 4.5 {
		t.Fatal("average rate not propagated")
	}
	if stats.CompletedOrders != 2 {
		t.Fatalf("expected 2 completed orders, got %d", stats.CompletedOrders)
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc, _ := NewService(&stubUserReader{})

	_, err := svc.Get(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
