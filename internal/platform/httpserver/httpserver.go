package httpserver

import (
	"net/http"
	"time"
)

// New returns the process HTTP server. ReadHeaderTimeout guards against
// slow-header clients; per-request deadlines live in the router middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
