package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/ecommerce-api/internal/config"
)

// App держит зависимости, общие для всего приложения: конфиг, логгер и пул БД.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
}

// NewApp открывает пул подключений к Postgres и проверяет его доступность.
// Пароль БД принимается только через переменную окружения, в конфиг-файле его нет.
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is not set")
	}

	db, err := sql.Open("postgres", buildDSN(cfg.Database, dbPassword))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &App{
		Config: cfg,
		Logger: log,
		DB:     db,
	}, nil
}

func buildDSN(dbCfg config.DatabaseConfig, password string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		dbCfg.User, password, dbCfg.Host, dbCfg.Port, dbCfg.Name,
	)
}
