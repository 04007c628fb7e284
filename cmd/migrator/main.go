package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/linemk/ecommerce-api/internal/config"
)

const migrationsTable = "schema_migrations"

// buildMigrateDSN собирает строку подключения для мигратора;
// имя таблицы версий передается через параметр x-migrations-table.
func buildMigrateDSN(dbCfg config.DatabaseConfig, dbPassword string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&x-migrations-table=%s",
		dbCfg.User, dbPassword, dbCfg.Host, dbCfg.Port, dbCfg.Name, migrationsTable,
	)
}

func main() {
	var (
		migrationsPathFlag string
		down               bool
		steps              int
	)
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.BoolVar(&down, "down", false, "roll migrations back instead of applying them")
	flag.IntVar(&steps, "steps", 0, "number of migrations to apply (0 — all)")
	flag.Parse()

	cfg := config.MustLoad()

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		log.Fatal("DB_PASSWORD environment variable is required")
	}

	m, err := migrate.New("file://"+migrationsPath, buildMigrateDSN(cfg.Database, dbPassword))
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if err := run(m, down, steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no migrations to apply")
			return
		}
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied successfully")
}

func run(m *migrate.Migrate, down bool, steps int) error {
	switch {
	case steps > 0 && down:
		return m.Steps(-steps)
	case steps > 0:
		return m.Steps(steps)
	case down:
		return m.Down()
	default:
		return m.Up()
	}
}
