package modules

import (
	"github.com/fleetdock/fleetdock/modules/crew"
	"github.com/fleetdock/fleetdock/modules/docs"
	"github.com/fleetdock/fleetdock/modules/registry"
	"github.com/fleetdock/fleetdock/pkg/application"
)

var BuiltInModules = []application.Module{
	registry.NewModule(),
	crew.NewModule(),
	docs.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
