package registry

import (
	"embed"
	"io/fs"

	"github.com/fleetdock/fleetdock/modules/registry/infrastructure/persistence"
	"github.com/fleetdock/fleetdock/modules/registry/presentation/controllers"
	"github.com/fleetdock/fleetdock/modules/registry/services"
	"github.com/fleetdock/fleetdock/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	schema, err := fs.Sub(migrationFiles, "infrastructure/persistence/schema")
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(m.Name(), schema)

	companyRepo := persistence.NewCompanyRepository()
	shipRepo := persistence.NewShipRepository()

	app.RegisterServices(
		services.NewCompanyService(companyRepo, app.EventPublisher()),
		services.NewShipService(shipRepo, companyRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewCompanyController(app),
		controllers.NewShipController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "registry"
}
