package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with defaults for this service. No WriteTimeout:
// the synchronous extraction endpoint legitimately holds a response open for
// the length of a model call.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
