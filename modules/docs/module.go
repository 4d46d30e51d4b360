package docs

import (
	"context"
	"embed"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/fleetdock/fleetdock/modules/docs/domain/upload"
	"github.com/fleetdock/fleetdock/modules/docs/infrastructure/analysis"
	"github.com/fleetdock/fleetdock/modules/docs/infrastructure/persistence"
	"github.com/fleetdock/fleetdock/modules/docs/infrastructure/storage"
	"github.com/fleetdock/fleetdock/modules/docs/presentation/controllers"
	"github.com/fleetdock/fleetdock/modules/docs/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/configuration"
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

	conf := configuration.Use()

	// background context for upload completions: they outlive the request
	// that enqueued them
	asyncCtx := composables.WithPool(context.Background(), app.DB())
	asyncCtx = composables.WithLogger(asyncCtx, logrus.NewEntry(app.Logger()))

	var fileStorage upload.Storage
	if conf.Drive.Configured() {
		fileStorage, err = storage.NewDriveStorage(asyncCtx, conf.Drive)
		if err != nil {
			return err
		}
	} else {
		app.Logger().Warn("drive credentials not configured, document files will not be stored")
		fileStorage = storage.Disabled{}
	}

	repo := persistence.NewDocumentRepository()
	analyzer := analysis.NewOpenAIAnalyzer(conf.OpenAI)

	app.RegisterServices(
		services.NewDocumentService(repo, fileStorage, app.EventPublisher()),
		services.NewBatchService(asyncCtx, repo, analyzer, fileStorage, app.EventPublisher(), services.BatchConfigFromEnv(conf)),
	)

	app.RegisterControllers(
		controllers.NewDocumentController(app),
		controllers.NewBatchController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "docs"
}
