package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/stockroom-backend/internal/employees"
	pkgAuth "github.com/angelmondragon/stockroom-backend/pkg/auth"
	"github.com/angelmondragon/stockroom-backend/pkg/auth/session"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/security"
)

const invalidCredentialsMessage = "Invalid username or password"

// Service authenticates employees and manages their sessions.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type employeeFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Employee, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, employeeID int64) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Rotation, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Employees      employeeFinder
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

type service struct {
	employees employeeFinder
	session   sessionManager
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Employees == nil {
		return nil, fmt.Errorf("employee repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		employees: params.Employees,
		session:   params.SessionManager,
		jwtCfg:    params.JWTConfig,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login succeeds iff the employee exists and the password verifies against
// the stored hash. Unknown ids and wrong passwords are indistinguishable.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.EmployeeID <= 0 || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	employee, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "lookup employee")
	}

	valid, err := security.VerifyPassword(req.Password, employee.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	pair, err := s.issue(ctx, employee)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Employee:     employees.FromModel(employee),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh rotates the session behind accessToken (which may be expired) and
// mints a new access token from the employee's current record.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	rotation, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	if rotation.EmployeeID != claims.EmployeeID {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	employee, err := s.employees.FindByID(ctx, rotation.EmployeeID)
	if err != nil {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		if errors.Is(err, employees.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "employee no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailure, err, "lookup employee")
	}

	token, err := s.mint(employee, rotation.AccessID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: token, RefreshToken: rotation.RefreshToken}, nil
}

// Logout revokes the session behind accessToken. Expired tokens are accepted.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, employee *models.Employee) (*TokenPair, error) {
	accessID := session.NewAccessID()
	token, err := s.mint(employee, accessID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.session.Generate(ctx, accessID, employee.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &TokenPair{AccessToken: token, RefreshToken: refresh}, nil
}

func (s *service) mint(employee *models.Employee, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Role:         employee.Role,
		JTI:          accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}
