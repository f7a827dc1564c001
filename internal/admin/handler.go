package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "aura/pkg/domain-errors"
	"aura/pkg/platform/httputil"
	"aura/pkg/requestcontext"
)

// Handler wires the admin session endpoints to the admin service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the admin endpoints. The router group is expected to be
// wrapped in the admin-token middleware; the handler itself only deals in
// session semantics.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/session", h.HandleGetSession)
	r.Post("/admin/logout", h.HandleLogout)
}

// HandleGetSession handles GET /admin/session requests.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap, err := h.service.Session(ctx, requestcontext.SessionKey(ctx), r.Header.Get("Cookie"))
	if snap == nil {
		h.logger.ErrorContext(ctx, "admin session resolution failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "admin session check unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleLogout handles POST /admin/logout requests.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx, requestcontext.SessionKey(ctx), r.Header.Get("Cookie")); err != nil {
		h.logger.ErrorContext(ctx, "admin logout failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "admin logout incomplete"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
