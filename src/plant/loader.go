package plant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"windfarm-observer/src/interfaces"
	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/timeseries"
)

// Load sources reported in MPlantStatus
const (
	SourceStore   = "store"
	SourceArchive = "archive"
)

// ArchiveLoader builds the plant tables from the tabular store when it has
// been staged, otherwise from the zipped CSV export, staging the result.
// DB and Network are optional.
type ArchiveLoader struct {
	Config  *models.MConfig
	DB      interfaces.IDatabase
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewArchiveLoader(cfg *models.MConfig, db interfaces.IDatabase, nm interfaces.INetworkManager, log *logger.Logger) *ArchiveLoader {
	return &ArchiveLoader{Config: cfg, DB: db, Network: nm, Logger: log}
}

// -----------------------------------------------------------------------------

// Load implements interfaces.IPlantLoader
func (l *ArchiveLoader) Load(ctx context.Context) (*interfaces.PlantTables, error) {
	if l.DB != nil && !l.Config.Storage.Rebuild {
		tables, err := l.loadFromStore(ctx)
		if err != nil {
			l.Logger.Warning("Reading staged plant data failed, falling back to archive: %v", err)
		} else if tables != nil {
			return tables, nil
		}
	}

	tables, err := l.loadFromArchive(ctx)
	if err != nil {
		return nil, err
	}

	if l.DB != nil {
		if err := l.DB.SavePlantData(ctx, tables.Measurements, tables.Assets); err != nil {
			l.Logger.Error("Staging plant data failed: %v", err)
		} else {
			l.Logger.Info("Staged %d measurement rows and %d assets", tables.Measurements.Len(), tables.Assets.Len())
		}
	}
	return tables, nil
}

// -----------------------------------------------------------------------------

// loadFromStore returns nil tables when nothing has been staged yet
func (l *ArchiveLoader) loadFromStore(ctx context.Context) (*interfaces.PlantTables, error) {
	has, err := l.DB.HasPlantData(ctx)
	if err != nil || !has {
		return nil, err
	}

	mf, err := l.DB.LoadMeasurementFrame(ctx)
	if err != nil {
		return nil, err
	}
	af, err := l.DB.LoadAssetFrame(ctx)
	if err != nil {
		return nil, err
	}

	measurements, stats := timeseries.NormalizeMeasurements(mf, timeseries.CanonicalScadaSchema)
	l.logStats("store", stats)
	return &interfaces.PlantTables{
		Measurements: measurements,
		Assets:       timeseries.NormalizeAssets(af, timeseries.CanonicalAssetSchema),
		Source:       SourceStore,
	}, nil
}

// -----------------------------------------------------------------------------

func (l *ArchiveLoader) loadFromArchive(ctx context.Context) (*interfaces.PlantTables, error) {
	pc := l.Config.Plant
	dir := l.extractDir()

	scadaPath, ok := locate(dir, pc.ScadaFile)
	if !ok {
		if err := l.ensureArchive(ctx); err != nil {
			return nil, err
		}
		n, err := extractZip(pc.ArchivePath, dir)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", pc.ArchivePath, err)
		}
		l.Logger.Info("Extracted %d files from %s into %s", n, pc.ArchivePath, dir)

		if scadaPath, ok = locate(dir, pc.ScadaFile); !ok {
			return nil, fmt.Errorf("%s not found in archive %s", pc.ScadaFile, pc.ArchivePath)
		}
	}

	delim := l.delimiter()
	sc := pc.ScadaColumns
	frame, err := ReadCSVFile(scadaPath, delim, []string{sc.Time, sc.AssetID, sc.WindSpeed, sc.Power, sc.Temperature})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", scadaPath, err)
	}
	measurements, stats := timeseries.NormalizeMeasurements(frame, sc)
	l.logStats(filepath.Base(scadaPath), stats)

	assets := timeseries.NewAssetTable(nil, timeseries.AssetColumnSet{})
	assetPath, found := "", false
	if pc.AssetFile != "" {
		assetPath, found = locate(dir, pc.AssetFile)
	}
	if found {
		ac := pc.AssetColumns
		af, err := ReadCSVFile(assetPath, delim, []string{ac.AssetID, ac.Latitude, ac.Longitude, ac.RatedPower})
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", assetPath, err)
		}
		assets = timeseries.NormalizeAssets(af, ac)
	} else {
		l.Logger.Warning("Asset table %q not found; geospatial and rated power data unavailable", pc.AssetFile)
	}

	return &interfaces.PlantTables{
		Measurements: measurements,
		Assets:       assets,
		Source:       SourceArchive,
	}, nil
}

// -----------------------------------------------------------------------------

// ensureArchive downloads the archive when it is missing and a URL is configured
func (l *ArchiveLoader) ensureArchive(ctx context.Context) error {
	pc := l.Config.Plant
	if _, err := os.Stat(pc.ArchivePath); err == nil {
		return nil
	}
	if pc.ArchiveURL == "" || l.Network == nil {
		return fmt.Errorf("plant archive not found at %s", pc.ArchivePath)
	}

	l.Logger.Info("Downloading plant archive from %s", pc.ArchiveURL)
	body, err := l.Network.Get(ctx, pc.ArchiveURL, nil)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(pc.ArchivePath), 0o755); err != nil {
		return err
	}
	tmp := pc.ArchivePath + ".part"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, pc.ArchivePath)
}

// -----------------------------------------------------------------------------

func (l *ArchiveLoader) extractDir() string {
	pc := l.Config.Plant
	if pc.ExtractDir == "" {
		return pc.DataDir
	}
	return filepath.Join(pc.DataDir, pc.ExtractDir)
}

// -----------------------------------------------------------------------------

func (l *ArchiveLoader) delimiter() rune {
	r, size := utf8.DecodeRuneInString(l.Config.Plant.CSVDelimiter)
	if size == 0 || r == utf8.RuneError {
		return ';'
	}
	return r
}

// -----------------------------------------------------------------------------

func (l *ArchiveLoader) logStats(source string, stats timeseries.NormalizeStats) {
	l.Logger.Info("Normalized %s: %d rows in, %d dropped without timestamp, asset ids resolved: %v",
		source, stats.InputRows, stats.DroppedNoTime, stats.AssetIDResolved)
	if stats.InputRows > 0 && stats.DroppedNoTime == stats.InputRows {
		l.Logger.Warning("%s: no row has a parsable timestamp", source)
	}
}
