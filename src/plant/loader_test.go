package plant

import (
	"archive/zip"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"windfarm-observer/src/logger"
	"windfarm-observer/src/models"
	"windfarm-observer/src/network"
	"windfarm-observer/src/storage"
)

const scadaCSV = `Wind_turbine_name;Date_time;Ws_avg;P_avg;Ot_avg;Ba_avg
R80711;2015-01-01T00:00:00+01:00;5,2;310.5;3.1;0
R80721;2015-01-01T00:00:00+01:00;6.1;;2.9;0
R80711;2015-01-01T00:10:00+01:00;5.5;330;3.0;0
R80721;2015-01-01T00:10:00+01:00;6.3;410;NaN;0
`

const assetCSV = `Wind_turbine_name,Latitude,Longitude,Rated_power
R80711,48.4561,5.5864,2050
R80721,48.4497,5.5869,2050
`

func writeArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()
}

func archiveBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.zip")
	writeArchive(t, path, files)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	return b
}

func testConfig(dir string) *models.MConfig {
	return &models.MConfig{
		Storage: models.MStorageConfig{DBType: "sqlite", DBPath: filepath.Join(dir, "plant.db")},
		Network: models.MNetworkConfig{RequestTimeout: 5},
		Plant: models.MPlantConfig{
			ArchivePath:  filepath.Join(dir, "la_haute_borne.zip"),
			DataDir:      filepath.Join(dir, "data"),
			ExtractDir:   "la_haute_borne",
			ScadaFile:    "la-haute-borne-data-2014-2015.csv",
			AssetFile:    "la-haute-borne_asset_table.csv",
			CSVDelimiter: ";",
			ScadaColumns: models.MScadaSchema{
				Time: "Date_time", AssetID: "Wind_turbine_name", WindSpeed: "Ws_avg", Power: "P_avg", Temperature: "Ot_avg",
			},
			AssetColumns: models.MAssetSchema{
				AssetID: "Wind_turbine_name", Latitude: "Latitude", Longitude: "Longitude", RatedPower: "Rated_power", RatedPowerScale: 0.001,
			},
		},
	}
}

var laHauteBorne = map[string]string{
	"la-haute-borne-data-2014-2015.csv": scadaCSV,
	"la-haute-borne_asset_table.csv":    assetCSV,
}

func TestLoaderParsesArchiveAndStages(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writeArchive(t, cfg.Plant.ArchivePath, laHauteBorne)
	log := logger.NewDiscardLogger("loader-test")

	db, err := storage.NewSQLiteDB(cfg, log)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("init db: %v", err)
	}
	defer db.Close()

	loader := NewArchiveLoader(cfg, db, nil, log)
	tables, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tables.Source != SourceArchive || tables.Measurements.Len() != 4 || tables.Assets.Len() != 2 {
		t.Fatalf("unexpected archive load: %s %d %d", tables.Source, tables.Measurements.Len(), tables.Assets.Len())
	}
	if ws := tables.Measurements.Record(0).WindSpeedMS; ws != 5.2 {
		t.Fatalf("decimal comma lost: %v", ws)
	}
	if rated, _ := tables.Assets.RatedPowers(); math.Abs(rated[0]-2.05) > 1e-9 {
		t.Fatalf("rated power not scaled to MW: %v", rated)
	}

	// Second load comes back from the store through the composite index
	again, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Source != SourceStore || again.Measurements.Len() != 4 || !again.Measurements.HasAssetIDs() {
		t.Fatalf("expected staged reload, got %s rows=%d", again.Source, again.Measurements.Len())
	}
	latest, ok := again.Measurements.MaxTime()
	want, _ := tables.Measurements.MaxTime()
	if !ok || !latest.Equal(want) {
		t.Fatalf("latest timestamp changed through the store: %v vs %v", latest, want)
	}
}

func TestLoaderMissingArchive(t *testing.T) {
	cfg := testConfig(t.TempDir())
	loader := NewArchiveLoader(cfg, nil, nil, logger.NewDiscardLogger("loader-test"))
	if _, err := loader.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected missing archive error, got %v", err)
	}
}

func TestLoaderDownloadsArchive(t *testing.T) {
	payload := archiveBytes(t, laHauteBorne)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	cfg := testConfig(t.TempDir())
	cfg.Plant.ArchiveURL = srv.URL + "/la_haute_borne.zip"
	log := logger.NewDiscardLogger("loader-test")

	loader := NewArchiveLoader(cfg, nil, network.NewAsyncNetworkManager(cfg, log), log)
	tables, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tables.Measurements.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", tables.Measurements.Len())
	}
	if _, err := os.Stat(cfg.Plant.ArchivePath); err != nil {
		t.Fatalf("archive must be kept on disk: %v", err)
	}
}

func TestExtractRejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeArchive(t, archive, map[string]string{"../escape.csv": "x"})
	if _, err := extractZip(archive, filepath.Join(dir, "out")); err == nil {
		t.Fatalf("expected zip-slip rejection")
	}
}

func TestExtractLeavesNoTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "corrupt.zip")

	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	body := []byte(scadaCSV)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               "la-haute-borne-data-2014-2015.csv",
		Method:             zip.Store,
		CRC32:              0xdeadbeef, // fails the checksum once the body is copied
		CompressedSize64:   uint64(len(body)),
		UncompressedSize64: uint64(len(body)),
	})
	if err != nil {
		t.Fatalf("zip entry: %v", err)
	}
	w.Write(body)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	out := filepath.Join(dir, "out")
	if _, err := extractZip(archive, out); err == nil {
		t.Fatalf("expected checksum failure")
	}
	if _, ok := locate(out, "la-haute-borne-data-2014-2015.csv"); ok {
		t.Fatalf("failed extraction left a file that a retry would load")
	}
	if _, err := os.Stat(filepath.Join(out, "la-haute-borne-data-2014-2015.csv.part")); !os.IsNotExist(err) {
		t.Fatalf("temporary file not cleaned up: %v", err)
	}
}

func TestReadCSVSniffsDelimiterAndKeepsColumns(t *testing.T) {
	frame, err := ReadCSV(strings.NewReader(assetCSV), ';', []string{"Wind_turbine_name", "Latitude"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", frame.NumRows())
	}
	if names := frame.ColumnNames(); len(names) != 2 {
		t.Fatalf("expected only the kept columns, got %v", names)
	}
	lat, _ := frame.Column("Latitude")
	if lat[1] != "48.4497" {
		t.Fatalf("unexpected cell %v", lat[1])
	}

	empty, err := ReadCSV(strings.NewReader(""), ';', nil)
	if err != nil || empty.NumRows() != 0 {
		t.Fatalf("empty input must give an empty frame, got %v", err)
	}
}
