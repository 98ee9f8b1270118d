package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/frahmantamala/pos-identity/internal"
	"github.com/frahmantamala/pos-identity/internal/auth"
	businessPostgres "github.com/frahmantamala/pos-identity/internal/business/postgres"
	"github.com/frahmantamala/pos-identity/internal/core/events"
	"github.com/frahmantamala/pos-identity/internal/core/events/mqtt"
	employeePostgres "github.com/frahmantamala/pos-identity/internal/employee/postgres"
	"github.com/frahmantamala/pos-identity/internal/module"
	modulePostgres "github.com/frahmantamala/pos-identity/internal/module/postgres"
	"github.com/frahmantamala/pos-identity/internal/role"
	rolePostgres "github.com/frahmantamala/pos-identity/internal/role/postgres"
	"github.com/frahmantamala/pos-identity/internal/store"
)

// application holds the wired services shared by the server and the CLI.
type application struct {
	Config  *internal.Config
	Logger  *slog.Logger
	SQL     *sqlx.DB
	DB      *gorm.DB
	Bus     *events.EventBus
	MQTT    *mqtt.Client
	Modules *module.Service
	Roles   *role.Service
	Auth    *auth.Service
	Access  *auth.ModuleAccessChecker
}

func newApplication(cfg *internal.Config, logger *slog.Logger) (*application, error) {
	sqlDB, gormDB, err := store.OpenPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &application{
		Config: cfg,
		Logger: logger,
		SQL:    sqlDB,
		DB:     gormDB,
		Bus:    events.NewEventBus(logger),
	}

	if cfg.Events.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.Events.MQTT, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to connect event broker: %w", err)
		}
		app.MQTT = client
		mqtt.NewForwarder(client, cfg.Events.MQTT.TopicPrefix, byte(cfg.Events.MQTT.QoS), logger).Attach(app.Bus)
	}

	employees := employeePostgres.NewEmployeeRepository(gormDB)

	app.Modules = module.NewService(modulePostgres.NewModuleRepository(gormDB), app.Bus, logger)
	app.Roles = role.NewService(rolePostgres.NewRoleRepository(gormDB), employees, app.Modules, app.Bus, logger)
	app.Access = auth.NewModuleAccessChecker(app.Modules)

	app.Auth = auth.NewService(auth.Dependencies{
		Businesses:   businessPostgres.NewBusinessRepository(gormDB),
		Employees:    employees,
		Roles:        app.Roles,
		Modules:      app.Modules,
		Transactions: store.NewTransactionManager(gormDB),
		Tokens:       auth.NewJWTTokenCodec(cfg.Security.JWTSecret, cfg.Security.TokenTTL),
		Publisher:    app.Bus,
		BCryptCost:   cfg.Security.BCryptCost,
	}, logger)

	return app, nil
}

// Close drains pending event handlers before releasing connections.
func (a *application) Close() {
	a.Bus.Wait()
	if a.MQTT != nil {
		a.MQTT.Close()
	}
	if err := a.SQL.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}
