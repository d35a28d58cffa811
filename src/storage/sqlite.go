package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"windfarm-observer/src/helpers"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	table:  func(name string) string { return name },
	bind:   func(int) string { return "?" },
	real:   "REAL",
	bigint: "INTEGER",
}

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteDB, error) {
	return &SQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath
	if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return helpers.NewDatabase("create database directory", err)
		}
	}

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewDatabase("open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabase("ping sqlite", err)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	if err := createPlantTables(context.Background(), db, sqliteDialect); err != nil {
		return helpers.NewDatabase("create tables", err)
	}
	d.Logger.Info("SQLite store ready at %s", dsn)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) HasPlantData(ctx context.Context) (bool, error) {
	return hasPlantData(ctx, d.DB, sqliteDialect)
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SavePlantData(ctx context.Context, m *timeseries.MeasurementTable, a *timeseries.AssetTable) error {
	if err := savePlantData(ctx, d.DB, sqliteDialect, m, a); err != nil {
		return helpers.NewDatabase("stage plant data", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) LoadMeasurementFrame(ctx context.Context) (*timeseries.Frame, error) {
	return loadMeasurementFrame(ctx, d.DB, sqliteDialect)
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) LoadAssetFrame(ctx context.Context) (*timeseries.Frame, error) {
	return loadAssetFrame(ctx, d.DB, sqliteDialect)
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
