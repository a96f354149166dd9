package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/angelmondragon/stockroom-backend/internal/movements"
	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/db"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"github.com/angelmondragon/stockroom-backend/pkg/metrics"
	"gorm.io/gorm"
)

// maxQuantity is the largest quantity the inventory column holds.
const maxQuantity = math.MaxInt32

// Service exposes inventory reads, authorized item edits and stock movement.
type Service interface {
	List(ctx context.Context) ([]ItemDTO, error)
	ListByLocation(ctx context.Context, loc enums.Location) ([]ItemDTO, error)
	Get(ctx context.Context, id int64) (*ItemDTO, error)
	Add(ctx context.Context, actor policy.Actor, input AddItemInput) (*ItemDTO, error)
	Update(ctx context.Context, actor policy.Actor, id int64, input UpdateItemInput) (*UpdateResult, error)
	Move(ctx context.Context, input MoveInput) (*MoveResult, error)
}

// AddItemInput holds the validated payload to create an inventory row.
type AddItemInput struct {
	Name     string
	Category string
	Quantity int
	Location enums.Location
}

// UpdateItemInput replaces every editable field of a row.
type UpdateItemInput struct {
	Name     string
	Category string
	Quantity int
	Location enums.Location
}

// UpdateResult reports the row after an edit. Item is nil when the edit
// brought the quantity to zero and the row was removed.
type UpdateResult struct {
	Item    *ItemDTO `json:"item,omitempty"`
	Deleted bool     `json:"deleted"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithSerializableTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    *Repository
	audit   *movements.Repository
	tx      txRunner
	metrics *metrics.MovementMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the inventory service. metrics may be nil.
func NewService(repo *Repository, audit *movements.Repository, tx txRunner, m *metrics.MovementMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("movement log repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		audit:   audit,
		tx:      tx,
		metrics: m,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list inventory")
	}
	return fromModels(rows), nil
}

func (s *service) ListByLocation(ctx context.Context, loc enums.Location) ([]ItemDTO, error) {
	if !loc.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown location %q", loc))
	}
	rows, err := s.repo.ListByLocation(ctx, loc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list inventory by location")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id int64) (*ItemDTO, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "load inventory item")
	}
	dto := FromModel(*rec)
	return &dto, nil
}

// Add inserts a new row. Adding never merges into an existing row of the same name.
func (s *service) Add(ctx context.Context, actor policy.Actor, input AddItemInput) (*ItemDTO, error) {
	if !policy.CanAddOrEdit(actor.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only Admins and Managers can add items")
	}
	name, category, err := validateItemFields(input.Name, input.Category, input.Location)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1")
	}
	if input.Quantity > maxQuantity {
		return nil, quantityTooLarge(input.Quantity)
	}

	now := s.now()
	rec := &models.InventoryRecord{
		Name:        name,
		Category:    category,
		Quantity:    input.Quantity,
		Location:    input.Location,
		AddedDate:   now,
		LastUpdated: now,
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := settle(ctx, s.repo.WithTx(tx), rec, now)
		return err
	}); err != nil {
		return nil, storeErr(err, "insert inventory item")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id":  rec.ID,
		"location": rec.Location,
		"quantity": rec.Quantity,
	}), "inventory.item.added")

	dto := FromModel(*rec)
	return &dto, nil
}

// Update replaces the row's fields. A quantity of zero removes the row.
func (s *service) Update(ctx context.Context, actor policy.Actor, id int64, input UpdateItemInput) (*UpdateResult, error) {
	if !policy.CanAddOrEdit(actor.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only Admins and Managers can edit items")
	}
	name, category, err := validateItemFields(input.Name, input.Category, input.Location)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative")
	}
	if input.Quantity > maxQuantity {
		return nil, quantityTooLarge(input.Quantity)
	}

	var (
		result UpdateResult
		rec    *models.InventoryRecord
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found")
			}
			return err
		}

		current.Name = name
		current.Category = category
		current.Quantity = input.Quantity
		current.Location = input.Location

		deleted, err := settle(ctx, txRepo, current, s.now())
		if err != nil {
			return err
		}
		result.Deleted = deleted
		rec = current
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "update inventory item")
	}

	if !result.Deleted {
		dto := FromModel(*rec)
		result.Item = &dto
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id": id,
		"deleted": result.Deleted,
	}), "inventory.item.updated")
	return &result, nil
}

func validateItemFields(name, category string, loc enums.Location) (string, string, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	switch {
	case name == "":
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "item_name is required")
	case category == "":
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "item_category is required")
	case !loc.IsValid():
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown location %q", loc))
	}
	return name, category, nil
}

func quantityTooLarge(quantity int) error {
	return pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("quantity cannot exceed %d", maxQuantity)).
		WithDetails(map[string]any{"quantity": quantity, "max": maxQuantity})
}

// storeErr keeps typed errors raised inside a transaction and classifies
// everything else. A lost serializable race is reported as a retryable
// concurrent update; it is not retried here.
func storeErr(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsSerializationFailure(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConcurrentUpdate, err, "inventory changed concurrently, retry the request")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, msg)
}
