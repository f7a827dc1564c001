package httptransport

import (
	"log/slog"
	"net/http"

	"aura/internal/audit"
	"aura/internal/authurl"
	"aura/internal/environment"
	"aura/internal/platform/metrics"
	"aura/pkg/requestcontext"
)

// LoginHandler starts the login flow: classify the client, build the right
// login-initiation URL, and send the browser there.
type LoginHandler struct {
	classifier environment.Classifier
	builder    *authurl.Builder
	devices    *environment.DeviceService
	logger     *slog.Logger
	metrics    *metrics.Metrics
	audit      *audit.Publisher
}

func NewLoginHandler(classifier environment.Classifier, builder *authurl.Builder,
	devices *environment.DeviceService, logger *slog.Logger, m *metrics.Metrics,
	publisher *audit.Publisher) *LoginHandler {
	return &LoginHandler{
		classifier: classifier,
		builder:    builder,
		devices:    devices,
		logger:     logger,
		metrics:    m,
		audit:      publisher,
	}
}

// HandleLogin handles GET /login requests. The optional redirect query
// parameter names where the user should land after authenticating.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hostname := requestcontext.Hostname(ctx)
	userAgent := requestcontext.UserAgent(ctx)

	verdict := h.classifier.Classify(hostname, userAgent)
	loginURL := h.builder.BuildLoginURL(verdict, origin(r), r.URL.Query().Get("redirect"))

	device := environment.ParseUserAgent(userAgent)
	h.logger.InfoContext(ctx, "login initiated",
		"request_id", requestcontext.RequestID(ctx),
		"verdict", string(verdict),
		"device", device,
	)
	if h.metrics != nil {
		h.metrics.LoginRedirects.WithLabelValues(string(verdict)).Inc()
	}
	if h.audit != nil {
		detail := string(verdict)
		if h.devices != nil {
			if fp := h.devices.ComputeFingerprint(userAgent); fp != "" {
				detail += " fp=" + fp
			}
		}
		h.audit.Emit(ctx, audit.Event{
			Action:     audit.ActionLoginInitiated,
			Outcome:    audit.OutcomeOK,
			SessionKey: requestcontext.SessionKey(ctx),
			RequestID:  requestcontext.RequestID(ctx),
			UserAgent:  device,
			Detail:     detail,
		})
	}

	http.Redirect(w, r, loginURL, http.StatusFound)
}

// origin reconstructs the request origin, honoring the proxy protocol
// header when the gateway sits behind TLS termination.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
