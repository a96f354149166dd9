package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/stockroom-backend/internal/movements"
	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/metrics"
	"gorm.io/gorm"
)

// MoveInput requests a transfer of Quantity units of record ItemID from one location to another.
type MoveInput struct {
	ItemID   int64
	From     enums.Location
	To       enums.Location
	Quantity int
	Actor    policy.Actor
}

// MoveResult describes the committed state of both sides of a transfer.
type MoveResult struct {
	ItemID          int64              `json:"item_id"`
	ItemName        string             `json:"item_name"`
	From            enums.Location     `json:"from_location"`
	To              enums.Location     `json:"to_location"`
	Quantity        int                `json:"quantity"`
	SourceRemaining int                `json:"source_remaining"`
	SourceDeleted   bool               `json:"source_deleted"`
	Destination     ItemDTO            `json:"destination"`
	Merged          bool               `json:"merged"`
	LogEntry        movements.EntryDTO `json:"log_entry"`
}

// Move transfers stock between locations. Checks run in order and the first
// failure wins: quantity, locations, role policy, then (inside the
// transaction) source existence and sufficiency. Nothing is written unless
// every step, including the audit entry, succeeds.
func (s *service) Move(ctx context.Context, input MoveInput) (*MoveResult, error) {
	started := time.Now()
	result, err := s.move(ctx, input)
	s.metrics.ObserveMove(input.From, input.To, outcome(err), input.Quantity, time.Since(started))
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_id":       result.ItemID,
		"from_location": result.From,
		"to_location":   result.To,
		"quantity":      result.Quantity,
		"merged":        result.Merged,
		"log_id":        result.LogEntry.LogID,
	}), "inventory.move.completed")
	return result, nil
}

func (s *service) move(ctx context.Context, input MoveInput) (*MoveResult, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be a positive integer")
	}
	if err := validateRoute(input); err != nil {
		return nil, err
	}
	if decision := policy.CanMove(input.Actor.Role, input.From, input.To); !decision.Allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, decision.Reason)
	}

	var result *MoveResult
	err := s.tx.WithSerializableTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.transfer(ctx, s.repo.WithTx(tx), s.audit.WithTx(tx), input)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "move inventory")
	}
	return result, nil
}

func validateRoute(input MoveInput) error {
	switch {
	case input.ItemID <= 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "item_id must be positive")
	case !input.From.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown from_location %q", input.From))
	case !input.To.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown to_location %q", input.To))
	case input.From == input.To:
		return pkgerrors.New(pkgerrors.CodeValidation, "from_location and to_location must differ")
	}
	return nil
}

func (s *service) transfer(ctx context.Context, repo *Repository, audit *movements.Repository, input MoveInput) (*MoveResult, error) {
	now := s.now()

	source, err := repo.FindAtLocationForUpdate(ctx, input.ItemID, input.From)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in source location")
		}
		return nil, err
	}
	if input.Quantity > source.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientQuantity, "Insufficient quantity").
			WithDetails(map[string]any{"available": source.Quantity, "requested": input.Quantity})
	}

	result := &MoveResult{
		ItemID:   source.ID,
		ItemName: source.Name,
		From:     input.From,
		To:       input.To,
		Quantity: input.Quantity,
	}

	source.Quantity -= input.Quantity
	if result.SourceDeleted, err = settle(ctx, repo, source, now); err != nil {
		return nil, err
	}
	result.SourceRemaining = source.Quantity
	s.logg.Debug(s.logg.WithField(ctx, "remaining", source.Quantity), "inventory.move.source_settled")

	dest, err := repo.FindByNameAtLocationForUpdate(ctx, source.Name, input.To)
	switch {
	case err == nil:
		if dest.Quantity > maxQuantity-input.Quantity {
			return nil, quantityTooLarge(dest.Quantity + input.Quantity)
		}
		dest.Quantity += input.Quantity
		result.Merged = true
	case errors.Is(err, ErrRecordNotFound):
		dest = &models.InventoryRecord{
			Name:      source.Name,
			Category:  source.Category,
			Quantity:  input.Quantity,
			Location:  input.To,
			AddedDate: now,
		}
	default:
		return nil, err
	}
	if _, err := settle(ctx, repo, dest, now); err != nil {
		return nil, err
	}
	result.Destination = FromModel(*dest)
	s.logg.Debug(s.logg.WithField(ctx, "merged", result.Merged), "inventory.move.destination_settled")

	entry := &models.MovementLogEntry{
		ItemID:       source.ID,
		ItemName:     source.Name,
		EmployeeID:   input.Actor.EmployeeID,
		EmployeeName: input.Actor.Name,
		FromLocation: input.From,
		ToLocation:   input.To,
		Quantity:     input.Quantity,
		MovementDate: now,
	}
	if err := audit.Append(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "append movement log")
	}
	result.LogEntry = movements.FromModel(*entry)
	return result, nil
}

// settle is the single write path for inventory quantities. A negative
// quantity is rejected, zero removes the row, anything else is saved
// (inserted when the row has no id yet). It reports whether the row is gone.
func settle(ctx context.Context, repo *Repository, rec *models.InventoryRecord, now time.Time) (bool, error) {
	switch {
	case rec.Quantity < 0:
		return false, pkgerrors.New(pkgerrors.CodeInternal, "inventory quantity would become negative").
			WithDetails(map[string]any{"item_id": rec.ID, "quantity": rec.Quantity})
	case rec.Quantity == 0:
		if rec.ID == 0 {
			return true, nil
		}
		return true, repo.Delete(ctx, rec.ID)
	case rec.ID == 0:
		rec.LastUpdated = now
		if rec.AddedDate.IsZero() {
			rec.AddedDate = now
		}
		return false, repo.Create(ctx, rec)
	default:
		rec.LastUpdated = now
		return false, repo.Save(ctx, rec)
	}
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}
