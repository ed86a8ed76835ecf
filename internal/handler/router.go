package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/agenda-bfa-go/internal/access"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/observability"
	"github.com/boddenberg/agenda-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger is a backend that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware.
// backend may be nil, in which case /healthz only reports the API itself.
func NewRouter(
	identitySvc *service.IdentityService,
	authSvc *service.AuthService,
	scheduleSvc *service.ScheduleService,
	backend Pinger,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	routes := access.DefaultRoutes()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(backend))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Autenticação
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-in", signInHandler(authSvc, logger))
			r.Post("/sign-up", signUpHandler(authSvc, logger))
			r.Post("/refresh", refreshHandler(authSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(identitySvc, logger))
				r.Post("/sign-out", signOutHandler(authSvc, logger))
			})
		})

		// =============================================
		// 2. Navegação (guarda de rotas)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(OptionalAuthMiddleware(identitySvc, logger))
			r.Post("/navigation/resolve", navigationResolveHandler(routes, metrics, logger))
		})

		// =============================================
		// 3. Rotas autenticadas
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(identitySvc, logger))

			r.Get("/me", meHandler())

			// Horários de funcionamento
			r.Route("/working-hours/{kind}/{id}", func(r chi.Router) {
				r.Get("/", getScheduleHandler(scheduleSvc, logger))
				r.Put("/", replaceScheduleHandler(scheduleSvc, logger))
				r.Put("/days/{day}/open", setDayOpenHandler(scheduleSvc, logger))
				r.Post("/days/{day}/slots", addSlotHandler(scheduleSvc, logger))
				r.Patch("/days/{day}/slots/{slot}", setSlotTimeHandler(scheduleSvc, logger))
				r.Delete("/days/{day}/slots/{slot}", removeSlotHandler(scheduleSvc, logger))
				r.Post("/days/{day}/copy-to-all", copyDayToAllHandler(scheduleSvc, logger))
			})

			// Visão consolidada do negócio
			r.With(RequireRoles(metrics, logger, domain.RoleBusinessOwner, domain.RoleSaaSAdmin)).
				Get("/businesses/{businessId}/availability", overviewHandler(scheduleSvc, logger))

			// Admin da plataforma
			r.With(RequireRoles(metrics, logger, domain.RoleSaaSAdmin)).
				Get("/admin/metrics/access", accessMetricsHandler(metrics))
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(backend Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := []domain.ServiceHealth{
			{Name: "agenda-bfa", Status: "healthy"},
		}

		if backend != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			start := time.Now()
			err := backend.Ping(ctx)
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "backend", Status: status, LatencyMs: time.Since(start).Milliseconds(),
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func accessMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetAccessSnapshot())
	}
}
