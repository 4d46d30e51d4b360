package server

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/configuration"
	"github.com/fleetdock/fleetdock/pkg/httpapi"
	"github.com/fleetdock/fleetdock/pkg/middleware"
	"github.com/fleetdock/fleetdock/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the standard middleware stack and handlers shared by
// every deployment.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	app.RegisterMiddleware(
		middleware.Traced("request_context"),
		middleware.ProvideRequestContext(),
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
	)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	return server.NewHTTPServer(app, notFound, methodNotAllowed), nil
}
