package database

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/inventory-ledger/pkg/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database configuration
type Config struct {
	Driver string

	// sqlite
	Path string

	// postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns int
}

// Open connects to the configured store and verifies the connection.
// Foreign keys are always enforced.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		err       error
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	case DriverPostgres:
		dialector, err = newPostgresDialector(cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver != DriverPostgres {
		// sqlite serializes writers; a single connection keeps the
		// per-connection foreign_keys pragma and avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info(ctx).
		Str("driver", driverName(cfg.Driver)).
		Msg("Successfully connected to database")

	return db, nil
}

// Close releases the pool. Closing a nil handle only logs a warning.
func Close(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		logger.Warn(ctx).Msg("Close called without an active database connection")
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	logger.Debug(ctx).Msg("Database connection closed")
	return nil
}

// Migrate creates or updates the schema for the given models. Safe to run repeatedly.
func Migrate(ctx context.Context, db *gorm.DB, models ...interface{}) error {
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info(ctx).Int("models", len(models)).Msg("Database schema is up to date")
	return nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "inventory.db"
	}
	return path + "?_foreign_keys=1"
}

func driverName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return driver
}
