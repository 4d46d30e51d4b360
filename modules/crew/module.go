package crew

import (
	"embed"
	"io/fs"

	"github.com/fleetdock/fleetdock/modules/crew/infrastructure/persistence"
	"github.com/fleetdock/fleetdock/modules/crew/presentation/controllers"
	"github.com/fleetdock/fleetdock/modules/crew/services"
	registrypersistence "github.com/fleetdock/fleetdock/modules/registry/infrastructure/persistence"
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

	memberRepo := persistence.NewCrewMemberRepository()
	eventRepo := persistence.NewCrewEventRepository()
	shipRepo := registrypersistence.NewShipRepository()

	app.RegisterServices(
		services.NewCrewMemberService(memberRepo, app.EventPublisher()),
		services.NewCrewEventService(eventRepo, memberRepo),
		services.NewHistoryService(eventRepo, memberRepo, shipRepo),
	)

	app.RegisterControllers(
		controllers.NewCrewMemberController(app),
		controllers.NewHistoryController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "crew"
}
