package handler

import (
	"net/http"
	"strings"

	"github.com/boddenberg/agenda-bfa-go/internal/access"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// 2. Navegação — POST /v1/navigation/resolve
// ============================================================

type navigationRequest struct {
	Path string `json:"path"`
}

func navigationResolveHandler(routes *access.RouteTable, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/navigation/resolve")
		defer span.End()

		var req navigationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !strings.HasPrefix(req.Path, "/") {
			writeError(w, http.StatusBadRequest, "path must start with /")
			return
		}

		id := IdentityFromContext(ctx)
		decision := routes.Guard(req.Path, id)
		metrics.IncrAccessDecision(decision.Label())
		span.SetAttributes(
			attribute.String("navigation.path", req.Path),
			attribute.String("navigation.action", decision.Label()),
		)

		logger.Debug("navigation resolved",
			zap.String("path", req.Path),
			zap.String("role", string(id.Role())),
			zap.String("action", string(decision.Action)),
			zap.String("redirect_to", decision.RedirectTo),
		)

		writeJSON(w, http.StatusOK, decision)
	}
}
