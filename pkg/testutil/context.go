package testutil

import (
	"context"
	"io"
	"log/slog"
	"time"

	"renewal-gateway/pkg/requestcontext"
)

// Static role-marker keys used by handler tests.
const (
	DriverKey  = "DRIVER@#$"
	OfficerKey = "OFFICER@#$"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ContextAt returns a background context pinned to now, as the request-time
// middleware would produce.
func ContextAt(now time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), now)
}
