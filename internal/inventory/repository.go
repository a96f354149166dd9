package inventory

import (
	"context"
	"errors"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned when no inventory row matches.
var ErrRecordNotFound = errors.New("inventory record not found")

// Repository persists inventory rows.
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

func (r *Repository) Create(ctx context.Context, rec *models.InventoryRecord) error {
	return r.base.DB(ctx).Create(rec).Error
}

// Save writes every column of an existing row.
func (r *Repository) Save(ctx context.Context, rec *models.InventoryRecord) error {
	res := r.base.DB(ctx).Model(&models.InventoryRecord{}).
		Where("item_id = ?", rec.ID).
		Updates(map[string]any{
			"item_name":     rec.Name,
			"item_category": rec.Category,
			"quantity":      rec.Quantity,
			"location":      rec.Location,
			"last_updated":  rec.LastUpdated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.base.DB(ctx).Where("item_id = ?", id).Delete(&models.InventoryRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.InventoryRecord, error) {
	return first(r.base.DB(ctx).Where("item_id = ?", id))
}

// FindByIDForUpdate loads and row-locks a record for the rest of the transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int64) (*models.InventoryRecord, error) {
	return first(r.base.ForUpdate(ctx).Where("item_id = ?", id))
}

// FindAtLocationForUpdate loads and row-locks record id only if it sits at loc.
func (r *Repository) FindAtLocationForUpdate(ctx context.Context, id int64, loc enums.Location) (*models.InventoryRecord, error) {
	return first(r.base.ForUpdate(ctx).Where("item_id = ? AND location = ?", id, loc))
}

// FindByNameAtLocationForUpdate locks the oldest row named name at loc.
func (r *Repository) FindByNameAtLocationForUpdate(ctx context.Context, name string, loc enums.Location) (*models.InventoryRecord, error) {
	return first(r.base.ForUpdate(ctx).Where("item_name = ? AND location = ?", name, loc).Order("item_id ASC"))
}

func (r *Repository) List(ctx context.Context) ([]models.InventoryRecord, error) {
	var rows []models.InventoryRecord
	if err := r.base.DB(ctx).Order("location ASC").Order("item_name ASC").Order("item_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListByLocation(ctx context.Context, loc enums.Location) ([]models.InventoryRecord, error) {
	var rows []models.InventoryRecord
	if err := r.base.DB(ctx).Where("location = ?", loc).Order("item_name ASC").Order("item_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func first(q *gorm.DB) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	if err := q.Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.base.DB(ctx).Model(&models.InventoryRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
