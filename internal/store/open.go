package store

import (
	"fmt"

	"github.com/frahmantamala/pos-identity/internal"
	businessDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/business"
	employeeDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/employee"
	moduleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/module"
	roleDatamodel "github.com/frahmantamala/pos-identity/internal/core/datamodel/role"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const driverName = "pgx"

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&moduleDatamodel.Module{},
		&businessDatamodel.Location{},
		&businessDatamodel.Administrator{},
		&businessDatamodel.Business{},
		&roleDatamodel.Role{},
		&employeeDatamodel.Employee{},
	}
}

// OpenPostgres opens one pgx pool and shares it between sqlx and gorm.
func OpenPostgres(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	sqlxDB, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlxDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlxDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlxDB.Ping(); err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlxDB.DB}), gormConfig(cfg.LogQueries))
	if err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return sqlxDB, gormDB, nil
}

// OpenSQLite opens a schema-migrated sqlite database, mostly ":memory:" for tests.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(false))
	if err != nil {
		return nil, err
	}

	// a single connection keeps one in-memory database per handle
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return db, nil
}

func gormConfig(logQueries bool) *gorm.Config {
	mode := logger.Silent
	if logQueries {
		mode = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(mode),
		TranslateError: true,
	}
}
