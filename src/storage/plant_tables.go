package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"windfarm-observer/src/timeseries"
)

// Staged table names
const (
	tableScada   = "scada"
	tableAssets  = "assets"
	tableColumns = "plant_columns"
)

// dialect captures what differs between the SQL backends
type dialect struct {
	table  func(name string) string
	bind   func(n int) string
	real   string
	bigint string
}

// -----------------------------------------------------------------------------

func createPlantTables(ctx context.Context, db *sql.DB, d dialect) error {
	queries := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				ts %s NOT NULL,
				asset_id TEXT,
				wind_speed %s,
				power %s,
				temperature %s
			);
		`, d.table(tableScada), d.bigint, d.real, d.real, d.real),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS scada_ts_idx ON %s (ts)`, d.table(tableScada)),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				asset_id TEXT,
				latitude %s,
				longitude %s,
				rated_power %s
			);
		`, d.table(tableAssets), d.real, d.real, d.real),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				table_name TEXT NOT NULL,
				column_name TEXT NOT NULL,
				PRIMARY KEY (table_name, column_name)
			);
		`, d.table(tableColumns)),
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func hasPlantData(ctx context.Context, db *sql.DB, d dialect) (bool, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE table_name = %s`, d.table(tableColumns), d.bind(1))
	if err := db.QueryRowContext(ctx, query, tableScada).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// -----------------------------------------------------------------------------

// savePlantData replaces all staged rows in one transaction. NaN is stored as NULL.
func savePlantData(ctx context.Context, db *sql.DB, d dialect, m *timeseries.MeasurementTable, a *timeseries.AssetTable) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range []string{tableScada, tableAssets, tableColumns} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, d.table(t))); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	// 1. Column presence
	colStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (table_name, column_name) VALUES (%s, %s)`,
		d.table(tableColumns), d.bind(1), d.bind(2)))
	if err != nil {
		return err
	}
	defer colStmt.Close()
	for _, pc := range presentColumns(m, a) {
		if _, err := colStmt.ExecContext(ctx, pc[0], pc[1]); err != nil {
			return err
		}
	}

	// 2. Measurements
	scadaStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (ts, asset_id, wind_speed, power, temperature)
		VALUES (%s, %s, %s, %s, %s)
	`, d.table(tableScada), d.bind(1), d.bind(2), d.bind(3), d.bind(4), d.bind(5)))
	if err != nil {
		return err
	}
	defer scadaStmt.Close()
	for _, r := range m.Records() {
		_, err := scadaStmt.ExecContext(ctx, r.Time.Unix(), r.AssetID, nullable(r.WindSpeedMS), nullable(r.PowerKW), nullable(r.TemperatureC))
		if err != nil {
			return err
		}
	}

	// 3. Assets
	assetStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (asset_id, latitude, longitude, rated_power)
		VALUES (%s, %s, %s, %s)
	`, d.table(tableAssets), d.bind(1), d.bind(2), d.bind(3), d.bind(4)))
	if err != nil {
		return err
	}
	defer assetStmt.Close()
	for _, r := range a.Records() {
		_, err := assetStmt.ExecContext(ctx, r.AssetID, nullable(r.Latitude), nullable(r.Longitude), nullable(r.RatedPowerMW))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func presentColumns(m *timeseries.MeasurementTable, a *timeseries.AssetTable) [][2]string {
	out := [][2]string{{tableScada, timeseries.FieldTime}}
	mc := m.Columns()
	for name, ok := range map[string]bool{
		timeseries.FieldAssetID:     m.HasAssetIDs(),
		timeseries.FieldWindSpeed:   mc.WindSpeed,
		timeseries.FieldPower:       mc.Power,
		timeseries.FieldTemperature: mc.Temperature,
	} {
		if ok {
			out = append(out, [2]string{tableScada, name})
		}
	}
	ac := a.Columns()
	for name, ok := range map[string]bool{
		timeseries.FieldAssetID:    ac.AssetID,
		timeseries.FieldLatitude:   ac.Latitude,
		timeseries.FieldLongitude:  ac.Longitude,
		timeseries.FieldRatedPower: ac.RatedPower,
	} {
		if ok {
			out = append(out, [2]string{tableAssets, name})
		}
	}
	return out
}

// -----------------------------------------------------------------------------

func columnPresence(ctx context.Context, db *sql.DB, d dialect, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT column_name FROM %s WHERE table_name = %s`,
		d.table(tableColumns), d.bind(1)), table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		present[name] = true
	}
	return present, rows.Err()
}

// -----------------------------------------------------------------------------

// loadMeasurementFrame reads the staged measurements indexed by (time, asset_id)
func loadMeasurementFrame(ctx context.Context, db *sql.DB, d dialect) (*timeseries.Frame, error) {
	present, err := columnPresence(ctx, db, d, tableScada)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT ts, asset_id, wind_speed, power, temperature
		FROM %s ORDER BY ts, asset_id
	`, d.table(tableScada)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times, ids, wind, power, temp []any
	for rows.Next() {
		var ts int64
		var id sql.NullString
		var ws, p, tc sql.NullFloat64
		if err := rows.Scan(&ts, &id, &ws, &p, &tc); err != nil {
			return nil, err
		}
		times = append(times, ts)
		ids = append(ids, id.String)
		wind = append(wind, cell(ws))
		power = append(power, cell(p))
		temp = append(temp, cell(tc))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frame := timeseries.NewFrame(len(times))
	if err := frame.AddIndexLevel(timeseries.FieldTime, times); err != nil {
		return nil, err
	}
	if present[timeseries.FieldAssetID] {
		if err := frame.AddIndexLevel(timeseries.FieldAssetID, ids); err != nil {
			return nil, err
		}
	}
	for name, values := range map[string][]any{
		timeseries.FieldWindSpeed:   wind,
		timeseries.FieldPower:       power,
		timeseries.FieldTemperature: temp,
	} {
		if !present[name] {
			continue
		}
		if err := frame.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// -----------------------------------------------------------------------------

func loadAssetFrame(ctx context.Context, db *sql.DB, d dialect) (*timeseries.Frame, error) {
	present, err := columnPresence(ctx, db, d, tableAssets)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT asset_id, latitude, longitude, rated_power FROM %s ORDER BY asset_id
	`, d.table(tableAssets)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids, lat, lon, rated []any
	for rows.Next() {
		var id sql.NullString
		var la, lo, rp sql.NullFloat64
		if err := rows.Scan(&id, &la, &lo, &rp); err != nil {
			return nil, err
		}
		ids = append(ids, id.String)
		lat = append(lat, cell(la))
		lon = append(lon, cell(lo))
		rated = append(rated, cell(rp))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frame := timeseries.NewFrame(len(ids))
	for name, values := range map[string][]any{
		timeseries.FieldAssetID:    ids,
		timeseries.FieldLatitude:   lat,
		timeseries.FieldLongitude:  lon,
		timeseries.FieldRatedPower: rated,
	} {
		if !present[name] {
			continue
		}
		if err := frame.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// -----------------------------------------------------------------------------

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func cell(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
