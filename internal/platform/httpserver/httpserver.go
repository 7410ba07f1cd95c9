package httpserver

import (
	"net/http"
	"time"
)

// writeGrace leaves room to flush a timeout response after the request
// deadline has fired.
const writeGrace = 5 * time.Second

// New builds the gateway's HTTP server. The write timeout follows the
// per-request timeout so handlers always get to write their own error.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + writeGrace,
		IdleTimeout:       60 * time.Second,
	}
}
