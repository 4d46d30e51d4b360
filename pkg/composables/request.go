package composables

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/fleetdock/fleetdock/pkg/constants"
)

// Params carries per-request ambient data. The acting user and locale are
// always passed through here rather than read from globals.
type Params struct {
	RequestID string
	IP        string
	UserAgent string
	Actor     string
	Locale    string
	Request   *http.Request
	Writer    http.ResponseWriter
}

func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

// UseActor returns the acting user identifier, empty when the request
// carried none.
func UseActor(ctx context.Context) string {
	params, ok := UseParams(ctx)
	if !ok {
		return ""
	}
	return params.Actor
}

func UseLocale(ctx context.Context) string {
	params, ok := UseParams(ctx)
	if !ok {
		return ""
	}
	return params.Locale
}

func UseRequestID(ctx context.Context) string {
	params, ok := UseParams(ctx)
	if !ok {
		return ""
	}
	return params.RequestID
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, or a plain entry when the
// middleware has not run (background jobs, tests).
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger.(*logrus.Entry)
}
