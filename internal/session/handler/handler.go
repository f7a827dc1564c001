// Package handler exposes the session snapshot over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aura/internal/session/models"
	dErrors "aura/pkg/domain-errors"
	"aura/pkg/platform/httputil"
	"aura/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the session cache operations the handler needs.
type Service interface {
	Resolve(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error)
	Refresh(ctx context.Context, key, cookieHeader string) (*models.Snapshot, error)
	Invalidate(ctx context.Context, key string) error
}

// Handler wires session endpoints to the session cache.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a session handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/session", h.HandleGetSession)
	r.Post("/session/refresh", h.HandleRefreshSession)
}

// HandleGetSession handles GET /session requests. It serves the cached
// snapshot when fresh and consults the backend otherwise.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, false)
}

// HandleRefreshSession handles POST /session/refresh requests, forcing a
// backend check.
func (h *Handler) HandleRefreshSession(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, true)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, force bool) {
	ctx := r.Context()
	key := requestcontext.SessionKey(ctx)
	cookieHeader := r.Header.Get("Cookie")

	var (
		snap *models.Snapshot
		err  error
	)
	if force {
		snap, err = h.service.Refresh(ctx, key, cookieHeader)
	} else {
		snap, err = h.service.Resolve(ctx, key, cookieHeader)
	}
	if snap == nil {
		h.logger.ErrorContext(ctx, "session resolution failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "session check unavailable"))
		return
	}

	// A failed snapshot is still the current answer; the transport status
	// stays 200 and the failure rides in the body.
	httputil.WriteJSON(w, http.StatusOK, snap)
}
