package movements

import (
	"context"
	"fmt"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and appends movement log rows. It never updates or deletes.
type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// Append inserts entry and populates its generated id.
func (r *Repository) Append(ctx context.Context, entry *models.MovementLogEntry) error {
	if entry == nil {
		return fmt.Errorf("movement log entry required")
	}
	if entry.ID != 0 {
		return fmt.Errorf("movement log entry %d already persisted", entry.ID)
	}
	return r.base.DB(ctx).Create(entry).Error
}

// ListRecent returns up to limit entries, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.MovementLogEntry, error) {
	return r.list(ctx, limit, nil)
}

// ListByEmployee returns up to limit entries performed by employeeID, newest first.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]models.MovementLogEntry, error) {
	return r.list(ctx, limit, func(q *gorm.DB) *gorm.DB {
		return q.Where("employee_id = ?", employeeID)
	})
}

// ListByItem returns up to limit entries for itemID, newest first.
func (r *Repository) ListByItem(ctx context.Context, itemID int64, limit int) ([]models.MovementLogEntry, error) {
	return r.list(ctx, limit, func(q *gorm.DB) *gorm.DB {
		return q.Where("item_id = ?", itemID)
	})
}

func (r *Repository) list(ctx context.Context, limit int, scope func(*gorm.DB) *gorm.DB) ([]models.MovementLogEntry, error) {
	q := r.base.DB(ctx).Model(&models.MovementLogEntry{})
	if scope != nil {
		q = scope(q)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.MovementLogEntry
	if err := q.Order("movement_date DESC").Order("log_id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
