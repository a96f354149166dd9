package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stockroom-backend/api/controllers"
	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/internal/auth"
	"github.com/angelmondragon/stockroom-backend/internal/employees"
	"github.com/angelmondragon/stockroom-backend/internal/inventory"
	"github.com/angelmondragon/stockroom-backend/internal/movements"
	"github.com/angelmondragon/stockroom-backend/pkg/auth/session"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"github.com/angelmondragon/stockroom-backend/pkg/metrics"
	"github.com/angelmondragon/stockroom-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

// cacheClient is the Redis surface used by the HTTP layer. nil disables rate
// limiting and idempotency replay.
type cacheClient interface {
	pinger
	redis.RateLimiter
	redis.IdempotencyStore
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pinger,
	cache cacheClient,
	sessions session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	employeeService employees.Service,
	inventoryService inventory.Service,
	movementService movements.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIDLimit,
	)

	var (
		limiter redis.RateLimiter
		idem    redis.IdempotencyStore
	)
	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["database"] = dbP
	}
	if cache != nil {
		limiter, idem = cache, cache
		deps["redis"] = cache
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, sessions, logg)
	idempotent := middleware.Idempotency(idem, cfg.Idempotency.TTL, logg)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(requireAuth).Post("/logout", controllers.AuthLogout(authService, logg))

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.EmployeesList(employeeService, logg))
			r.With(requireAuth).Get("/all", controllers.EmployeesAll(employeeService, logg))
			r.With(
				requireAuth,
				middleware.RequireRole(logg, "Only Admins can add employees", enums.RoleAdmin),
				idempotent,
			).Post("/add", controllers.EmployeeAdd(employeeService, logg))
			r.Get("/{id}", controllers.EmployeeGet(employeeService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryList(inventoryService, logg))
				r.With(idempotent).Post("/add", controllers.InventoryAdd(inventoryService, logg))
				r.Put("/update/{id}", controllers.InventoryUpdate(inventoryService, logg))
				r.With(idempotent).Post("/move", controllers.InventoryMove(inventoryService, logg))
				r.Get("/{location}", controllers.InventoryByLocation(inventoryService, logg))
			})

			r.Route("/movement-logs", func(r chi.Router) {
				r.Get("/", controllers.MovementLogsRecent(movementService, logg))
				r.Get("/employee/{id}", controllers.MovementLogsByEmployee(movementService, logg))
				r.Get("/item/{id}", controllers.MovementLogsByItem(movementService, logg))
			})
		})
	})

	return r
}
