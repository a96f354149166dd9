package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/stockroom-backend/internal/employees"
	"github.com/angelmondragon/stockroom-backend/internal/inventory"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Employee is one demo account. Password is hashed before insert.
type Employee struct {
	Name     string
	Email    string
	Role     enums.Role
	Password string
}

// Item is one demo inventory row.
type Item struct {
	Name     string
	Category string
	Quantity int
	Location enums.Location
}

// DemoEmployees are inserted in order, so ids 1..3 map to Admin, Store Clerk, Manager.
var DemoEmployees = []Employee{
	{Name: "Alice Johnson", Email: "alice@example.com", Role: enums.RoleAdmin, Password: "AlJ741"},
	{Name: "Bob Smith", Email: "bob@example.com", Role: enums.RoleStoreClerk, Password: "BoS963"},
	{Name: "Carol Williams", Email: "carol@example.com", Role: enums.RoleManager, Password: "CaW789"},
}

var DemoItems = []Item{
	{Name: "Laptop Dell XPS", Category: "Electronics", Quantity: 5, Location: enums.LocationDisplay},
	{Name: "Office Chair", Category: "Furniture", Quantity: 15, Location: enums.LocationDisplay},
	{Name: "Notebook A4", Category: "Stationery", Quantity: 200, Location: enums.LocationStorage},
	{Name: "Printer HP LaserJet", Category: "Electronics", Quantity: 8, Location: enums.LocationStorage},
	{Name: "Damaged Monitor", Category: "Electronics", Quantity: 2, Location: enums.LocationReturns},
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Params wires the seeder.
type Params struct {
	DB        txRunner
	Employees *employees.Repository
	Inventory *inventory.Repository
	Hasher    passwordHasher
	Logger    *logger.Logger
}

// Result counts the rows written by Run.
type Result struct {
	Employees int
	Items     int
}

type Seeder struct {
	db        txRunner
	employees *employees.Repository
	inventory *inventory.Repository
	hasher    passwordHasher
	logg      *logger.Logger
	now       func() time.Time
}

func New(params Params) (*Seeder, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if params.Employees == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Seeder{
		db:        params.DB,
		employees: params.Employees,
		inventory: params.Inventory,
		hasher:    params.Hasher,
		logg:      params.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Run populates each table that is still empty. Tables that already hold rows
// are left alone, so it is safe to call on every boot.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var (
		res  Result
		errs error
	)

	n, err := s.seedEmployees(ctx)
	errs = multierr.Append(errs, err)
	res.Employees = n

	n, err = s.seedItems(ctx)
	errs = multierr.Append(errs, err)
	res.Items = n

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"employees": res.Employees,
		"items":     res.Items,
	})
	if errs != nil {
		s.logg.Error(logCtx, "seed.failed", errs)
		return res, errs
	}
	s.logg.Info(logCtx, "seed.completed")
	return res, nil
}

func (s *Seeder) seedEmployees(ctx context.Context) (int, error) {
	written := 0
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.employees.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count employees: %w", err)
		}
		if count > 0 {
			return nil
		}

		var errs error
		for _, e := range DemoEmployees {
			hash, err := s.hasher.Hash(e.Password)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("hash password for %s: %w", e.Email, err))
				continue
			}
			row := &models.Employee{Name: e.Name, Email: e.Email, Role: e.Role, PasswordHash: hash}
			if err := repo.Create(ctx, row); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("insert employee %s: %w", e.Email, err))
				continue
			}
			written++
		}
		return errs
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (s *Seeder) seedItems(ctx context.Context) (int, error) {
	written := 0
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.inventory.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count inventory: %w", err)
		}
		if count > 0 {
			return nil
		}

		now := s.now()
		var errs error
		for _, it := range DemoItems {
			row := &models.InventoryRecord{
				Name:        it.Name,
				Category:    it.Category,
				Quantity:    it.Quantity,
				Location:    it.Location,
				AddedDate:   now,
				LastUpdated: now,
			}
			if err := repo.Create(ctx, row); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("insert item %s: %w", it.Name, err))
				continue
			}
			written++
		}
		return errs
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
