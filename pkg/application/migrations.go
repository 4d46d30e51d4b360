package application

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

type moduleSchema struct {
	name string
	fsys fs.FS
}

// MigrationManager applies each module's embedded goose migrations. Every
// module tracks its own version table so modules can evolve independently.
type MigrationManager struct {
	pool    *pgxpool.Pool
	schemas []moduleSchema
}

func NewMigrationManager(pool *pgxpool.Pool) *MigrationManager {
	return &MigrationManager{pool: pool}
}

func (m *MigrationManager) RegisterSchema(module string, fsys fs.FS) {
	m.schemas = append(m.schemas, moduleSchema{name: module, fsys: fsys})
}

func (m *MigrationManager) Run(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	for _, schema := range m.schemas {
		store, err := database.NewStore(database.DialectPostgres, fmt.Sprintf("goose_%s_version", schema.name))
		if err != nil {
			return fmt.Errorf("migrations: store for %s: %w", schema.name, err)
		}
		provider, err := goose.NewProvider("", db, schema.fsys, goose.WithStore(store))
		if err != nil {
			return fmt.Errorf("migrations: provider for %s: %w", schema.name, err)
		}
		if _, err := provider.Up(ctx); err != nil {
			return fmt.Errorf("migrations: up for %s: %w", schema.name, err)
		}
	}
	return nil
}
