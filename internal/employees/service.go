package employees

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/db"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

const minPasswordLength = 6

// Service exposes the employee directory and admin-only account creation.
type Service interface {
	ListSummaries(ctx context.Context) ([]SummaryDTO, error)
	ListProfiles(ctx context.Context) ([]ProfileDTO, error)
	Get(ctx context.Context, id int64) (*ProfileDTO, error)
	Create(ctx context.Context, actor policy.Actor, input CreateEmployeeInput) (*ProfileDTO, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type service struct {
	repo   *Repository
	hasher passwordHasher
}

func NewService(repo *Repository, hasher passwordHasher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &service{repo: repo, hasher: hasher}, nil
}

func (s *service) ListSummaries(ctx context.Context) ([]SummaryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list employees")
	}
	out := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SummaryDTO{EmployeeID: row.ID, EmployeeName: row.Name})
	}
	return out, nil
}

func (s *service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "list employees")
	}
	out := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*ProfileDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "load employee")
	}
	return FromModel(e), nil
}

// Create adds an employee account. Only Admins may call it.
func (s *service) Create(ctx context.Context, actor policy.Actor, input CreateEmployeeInput) (*ProfileDTO, error) {
	if !policy.CanManageEmployees(actor.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only Admins can add employees")
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee_name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee_email must be a valid email address")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown employee_role %q", input.Role))
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("employee_password must be at least %d characters", minPasswordLength))
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	e := &models.Employee{
		Name:         name,
		Email:        email,
		Role:         input.Role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if db.IsUniqueViolation(err, "ux_employees_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an employee with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "insert employee")
	}
	return FromModel(e), nil
}
