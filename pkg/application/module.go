package application

import (
	"context"

	"github.com/gorilla/mux"
)

// Module is a self-registering bounded context: it wires its repositories,
// services, controllers and schema into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

// Controller registers one routing namespace on the shared router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type SeedFunc func(ctx context.Context, app Application) error
