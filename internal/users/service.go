package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/artorders/artorders-backend/pkg/db/models"
	"github.com/artorders/artorders-backend/pkg/enums"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ArtistStats(ctx context.Context, artistID uuid.UUID) (*ArtistStats, error)
}

// Service exposes user profiles and artist statistics.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	GetArtistStats(ctx context.Context, artistID uuid.UUID) (*ArtistStats, error)
}

type service struct {
	repo userReader
}

// NewService wires the users service.
func NewService(repo userReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users service requires a repository")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	return FromModel(user), nil
}

func (s *service) GetArtistStats(ctx context.Context, artistID uuid.UUID) (*ArtistStats, error) {
	if artistID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist id is required")
	}
	user, err := s.repo.FindByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find artist")
	}
	if user.Role != enums.RoleArtist {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is not an artist")
	}

	stats, err := s.repo.ArtistStats(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artist stats")
	}
	return stats, nil
}
