package httpserver

import (
	"net/http"
	"time"
)

// New builds the gateway's HTTP server. Per-route deadlines come from the
// timeout middleware, so only slow-header and idle protection live here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
