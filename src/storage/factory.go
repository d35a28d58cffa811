package storage

import (
	"windfarm-observer/src/helpers"
	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
)

// NewDatabase picks the backend from storage.db_type. "none" returns a nil
// database, in which case plant data is parsed from the archive on every start.
func NewDatabase(cfg *models.MConfig, log *logger.Logger) (interfaces.IDatabase, error) {
	switch cfg.Storage.DBType {
	case "none":
		return nil, nil
	case "postgres":
		db, err := NewPostgresDB(cfg, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "", "sqlite":
		db, err := NewSQLiteDB(cfg, log)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, helpers.NewConfiguration("unknown db_type %q", cfg.Storage.DBType)
	}
}
