package employees

import (
	"context"
	"errors"

	"github.com/angelmondragon/stockroom-backend/internal/repo"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no employee matches.
var ErrNotFound = errors.New("employee not found")

// Repository exposes employee persistence operations.
type Repository struct {
	base repo.Base
}

// NewRepository constructs an employees repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// Create inserts e and populates its id.
func (r *Repository) Create(ctx context.Context, e *models.Employee) error {
	return r.base.DB(ctx).Create(e).Error
}

// FindByID loads one employee.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Employee, error) {
	var e models.Employee
	if err := r.base.DB(ctx).Where("employee_id = ?", id).Take(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns every employee ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Employee, error) {
	var rows []models.Employee
	if err := r.base.DB(ctx).Order("employee_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of employees.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.base.DB(ctx).Model(&models.Employee{}).Count(&n).Error
	return n, err
}
