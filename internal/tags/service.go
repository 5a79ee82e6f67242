package tags

import (
	"context"
	"fmt"
	"strings"

	pkgdb "github.com/artorders/artorders-backend/pkg/db"
	"github.com/artorders/artorders-backend/pkg/db/models"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
)

const defaultListLimit = 50

// Service exposes tag lookup and creation. Titles are stored lowercase so
// lookups stay case-insensitive.
type Service interface {
	GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error)
	List(ctx context.Context, query string) ([]models.Tag, error)
}

type service struct {
	repo Repository
}

// NewService wires the tags service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tags service requires a repository")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetOrCreate(ctx context.Context, titles []string) ([]models.Tag, error) {
	normalized := normalizeTitles(titles)
	if len(normalized) == 0 {
		return nil, nil
	}

	existing, err := s.repo.FindByTitles(ctx, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find tags")
	}

	byTitle := make(map[string]models.Tag, len(existing))
	for _, tag := range existing {
		byTitle[tag.Title] = tag
	}

	result := make([]models.Tag, 0, len(normalized))
	for _, title := range normalized {
		tag, ok := byTitle[title]
		if !ok {
			created, err := s.repo.Create(ctx, &models.Tag{Title: title})
			if err != nil {
				// A concurrent writer won the insert; use their row.
				if pkgdb.IsUniqueViolation(err, "ux_tags_title") {
					winner, refetchErr := s.refetch(ctx, title)
					if refetchErr != nil {
						return nil, refetchErr
					}
					result = append(result, winner)
					continue
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tag")
			}
			tag = *created
		}
		result = append(result, tag)
	}
	return result, nil
}

func (s *service) refetch(ctx context.Context, title string) (models.Tag, error) {
	found, err := s.repo.FindByTitles(ctx, []string{title})
	if err != nil {
		return models.Tag{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refetch tag")
	}
	if len(found) != 1 {
		return models.Tag{}, pkgerrors.New(pkgerrors.CodeConflict, "tag already exists")
	}
	return found[0], nil
}

func (s *service) List(ctx context.Context, query string) ([]models.Tag, error) {
	tags, err := s.repo.List(ctx, strings.ToLower(strings.TrimSpace(query)), defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tags")
	}
	return tags, nil
}

func normalizeTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	normalized := make([]string, 0, len(titles))
	for _, title := range titles {
		t := strings.ToLower(strings.TrimSpace(title))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		normalized = append(normalized, t)
	}
	return normalized
}
