package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPostgresDB stages tables in a schema named after the executable
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) dialect() dialect {
	return postgresDialect(d.Schema)
}

func postgresDialect(schema string) dialect {
	return dialect{
		table:  func(name string) string { return fmt.Sprintf(`"%s"."%s"`, schema, name) },
		bind:   func(n int) string { return fmt.Sprintf("$%d", n) },
		real:   "DOUBLE PRECISION",
		bigint: "BIGINT",
	}
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return helpers.NewDatabase("open postgres", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabase("ping postgres", err)
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := createPlantTables(context.Background(), db, d.dialect()); err != nil {
		return helpers.NewDatabase("create tables", err)
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) HasPlantData(ctx context.Context) (bool, error) {
	return hasPlantData(ctx, d.DB, d.dialect())
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SavePlantData(ctx context.Context, m *timeseries.MeasurementTable, a *timeseries.AssetTable) error {
	if err := savePlantData(ctx, d.DB, d.dialect(), m, a); err != nil {
		return helpers.NewDatabase("stage plant data", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadMeasurementFrame(ctx context.Context) (*timeseries.Frame, error) {
	return loadMeasurementFrame(ctx, d.DB, d.dialect())
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadAssetFrame(ctx context.Context) (*timeseries.Frame, error) {
	return loadAssetFrame(ctx, d.DB, d.dialect())
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
