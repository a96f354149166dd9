package movements

import (
	"context"
	"fmt"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

const DefaultRecentLimit = 100

// Service exposes read access to the movement audit log.
type Service interface {
	Recent(ctx context.Context) ([]EntryDTO, error)
	ByEmployee(ctx context.Context, employeeID int64) ([]EntryDTO, error)
	ByItem(ctx context.Context, itemID int64) ([]EntryDTO, error)
}

type reader interface {
	ListRecent(ctx context.Context, limit int) ([]models.MovementLogEntry, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]models.MovementLogEntry, error)
	ListByItem(ctx context.Context, itemID int64, limit int) ([]models.MovementLogEntry, error)
}

type service struct {
	repo        reader
	recentLimit int
}

// NewService builds the audit log reader. recentLimit caps Recent; values <= 0 fall back to DefaultRecentLimit.
func NewService(repo reader, recentLimit int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("movement log repository required")
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &service{repo: repo, recentLimit: recentLimit}, nil
}

func (s *service) Recent(ctx context.Context) ([]EntryDTO, error) {
	rows, err := s.repo.ListRecent(ctx, s.recentLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list movement logs")
	}
	return fromModels(rows), nil
}

func (s *service) ByEmployee(ctx context.Context, employeeID int64) ([]EntryDTO, error) {
	if employeeID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id must be positive")
	}
	rows, err := s.repo.ListByEmployee(ctx, employeeID, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list movement logs by employee")
	}
	return fromModels(rows), nil
}

func (s *service) ByItem(ctx context.Context, itemID int64) ([]EntryDTO, error) {
	if itemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id must be positive")
	}
	rows, err := s.repo.ListByItem(ctx, itemID, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list movement logs by item")
	}
	return fromModels(rows), nil
}
