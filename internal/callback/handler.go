package callback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"aura/pkg/requestcontext"
)

// Handler wires the callback endpoint to the resolver.
type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Register mounts the callback endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth-callback", h.HandleCallback)
}

// HandleCallback handles GET /auth-callback requests: one resolution pass,
// then a redirect. Failure is a redirect back into the login flow, never an
// error page.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	result := h.resolver.Resolve(ctx, Request{
		Token:      query.Get("token"),
		Success:    query.Get("success"),
		SessionKey: requestcontext.SessionKey(ctx),
		Hostname:   requestcontext.Hostname(ctx),
		UserAgent:  requestcontext.UserAgent(ctx),
	})

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}
