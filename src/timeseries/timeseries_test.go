package timeseries

import (
	"math"
	"testing"
	"time"

	"windfarm-observer/src/models"
)

var base = time.Date(2015, 6, 1, 12, 0, 0, 0, time.UTC)

func laHauteBorneSchema() models.MScadaSchema {
	return models.MScadaSchema{
		Time:        "Date_time",
		AssetID:     "Wind_turbine_name",
		WindSpeed:   "Ws_avg",
		Power:       "P_avg",
		Temperature: "Ot_avg",
	}
}

func columnFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame(4)
	mustAdd(t, f.AddColumn("Date_time", []any{
		"2015-06-01T12:00:00Z", "2015-06-01T12:10:00Z", "not a date", "2015-06-01T12:10:00Z",
	}))
	mustAdd(t, f.AddColumn("Wind_turbine_name", []any{"R80711", "R80711", "R80721", "R80721"}))
	mustAdd(t, f.AddColumn("Ws_avg", []any{"5.5", "6,5", "7", ""}))
	mustAdd(t, f.AddColumn("P_avg", []any{"300", "420.5", "900", "bad"}))
	return f
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("frame setup: %v", err)
	}
}

func TestNormalizeFromColumns(t *testing.T) {
	table, stats := NormalizeMeasurements(columnFrame(t), laHauteBorneSchema())

	if stats.DroppedNoTime != 1 {
		t.Fatalf("expected one unparsable timestamp dropped, got %d", stats.DroppedNoTime)
	}
	if stats.TimeFromIndex {
		t.Fatalf("time came from a column")
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	cols := table.Columns()
	if !cols.WindSpeed || !cols.Power || cols.Temperature {
		t.Fatalf("unexpected column set %+v", cols)
	}
	if got := table.Record(1).WindSpeedMS; got != 6.5 {
		t.Fatalf("decimal comma not parsed, got %v", got)
	}
	if !math.IsNaN(table.Record(2).PowerKW) || !math.IsNaN(table.Record(2).WindSpeedMS) {
		t.Fatalf("unparsable cells must become NaN: %+v", table.Record(2))
	}
	if !math.IsNaN(table.Record(0).TemperatureC) {
		t.Fatalf("absent temperature column must yield NaN")
	}
}

func TestNormalizeFromCompositeIndex(t *testing.T) {
	f := NewFrame(3)
	mustAdd(t, f.AddIndexLevel(FieldTime, []any{base, base.Add(10 * time.Minute), base.Add(10 * time.Minute)}))
	mustAdd(t, f.AddIndexLevel(FieldAssetID, []any{"T1", "T1", "T2"}))
	mustAdd(t, f.AddColumn(FieldPower, []any{100.0, nil, int64(50)}))

	table, stats := NormalizeMeasurements(f, CanonicalScadaSchema)
	if !stats.TimeFromIndex || !stats.AssetIDResolved {
		t.Fatalf("expected both axes from index, got %+v", stats)
	}
	ids, ok := table.AssetIDs()
	if !ok || len(ids) != 3 || ids[2] != "T2" {
		t.Fatalf("asset ids not aligned: %v %v", ids, ok)
	}
	if !math.IsNaN(table.Record(1).PowerKW) || table.Record(2).PowerKW != 50 {
		t.Fatalf("power coercion wrong: %+v", table.Records())
	}
}

func TestNormalizeSoleUnnamedIndexAndMissingIDs(t *testing.T) {
	f := NewFrame(2)
	mustAdd(t, f.AddIndexLevel("", []any{"2015-01-01 00:00:00", "2015-01-01 00:10:00"}))
	mustAdd(t, f.AddColumn(FieldPower, []any{"1", "2"}))

	table, stats := NormalizeMeasurements(f, CanonicalScadaSchema)
	if table.Len() != 2 || !stats.TimeFromIndex {
		t.Fatalf("expected time from sole index, got len=%d stats=%+v", table.Len(), stats)
	}
	if _, ok := table.AssetIDs(); ok {
		t.Fatalf("asset ids must be unresolvable")
	}
	if table.GroupByAsset() != nil {
		t.Fatalf("grouping must be nil without ids")
	}
}

func TestNormalizeWithoutTimeAxisIsEmpty(t *testing.T) {
	f := NewFrame(2)
	mustAdd(t, f.AddColumn(FieldPower, []any{"1", "2"}))
	table, stats := NormalizeMeasurements(f, CanonicalScadaSchema)
	if table.Len() != 0 || stats.DroppedNoTime != 2 {
		t.Fatalf("expected empty table, got len=%d stats=%+v", table.Len(), stats)
	}
	if _, ok := table.MaxTime(); ok {
		t.Fatalf("max time must be undefined on empty table")
	}
}

func sampleTable() *MeasurementTable {
	recs := []models.MScadaRecord{
		{AssetID: "B", Time: base.Add(-24 * time.Hour), PowerKW: 1},
		{AssetID: "A", Time: base.Add(-time.Hour), PowerKW: 2},
		{AssetID: "A", Time: base, PowerKW: 3},
		{AssetID: "B", Time: base, PowerKW: 4},
		{AssetID: "C", Time: base.Add(-25 * time.Hour), PowerKW: 5},
	}
	return NewMeasurementTable(recs, ColumnSet{Power: true}, true)
}

func TestWindowIsInclusiveOnBothBounds(t *testing.T) {
	table := sampleTable()
	end, ok := table.MaxTime()
	if !ok || !end.Equal(base) {
		t.Fatalf("max time wrong: %v", end)
	}

	w := table.Window(end, 24*time.Hour)
	if w.Len() != 4 {
		t.Fatalf("expected rows at end and end-24h included, got %d", w.Len())
	}
	for _, r := range w.Records() {
		if r.AssetID == "C" {
			t.Fatalf("row before window start leaked in")
		}
	}
}

func TestLatestSnapshotAndGrouping(t *testing.T) {
	snap, latest := sampleTable().LatestSnapshot()
	if !latest.Equal(base) || snap.Len() != 2 {
		t.Fatalf("expected 2 rows at %v, got %d at %v", base, snap.Len(), latest)
	}

	groups := sampleTable().GroupByAsset()
	if len(groups) != 3 || groups[0].AssetID != "B" || len(groups[0].Rows) != 2 {
		t.Fatalf("unexpected grouping %+v", groups)
	}

	empty, ts := NewMeasurementTable(nil, ColumnSet{}, true).LatestSnapshot()
	if empty.Len() != 0 || !ts.IsZero() {
		t.Fatalf("empty table snapshot must be empty")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	recs := []models.MScadaRecord{{AssetID: "A", Time: base, PowerKW: 1}}
	table := NewMeasurementTable(recs, ColumnSet{Power: true}, true)
	recs[0].PowerKW = 99
	if table.Record(0).PowerKW != 1 {
		t.Fatalf("constructor must copy records")
	}

	clone := table.Clone()
	clone.records[0].PowerKW = 7
	if table.Record(0).PowerKW != 1 {
		t.Fatalf("clone shares backing array with original")
	}
}

func TestNormalizeAssetsScalesRatedPower(t *testing.T) {
	f := NewFrame(2)
	mustAdd(t, f.AddColumn("id", []any{"T1", "T2"}))
	mustAdd(t, f.AddColumn("rated", []any{"2050", "n/a"}))
	assets := NormalizeAssets(f, models.MAssetSchema{AssetID: "id", RatedPower: "rated", RatedPowerScale: 0.001})

	if assets.Columns().Latitude {
		t.Fatalf("latitude column must be reported missing")
	}
	rated, ok := assets.RatedPowers()
	if !ok || math.Abs(rated[0]-2.05) > 1e-9 || !math.IsNaN(rated[1]) {
		t.Fatalf("unexpected rated powers %v", rated)
	}
	if ids := assets.TurbineIDs(); len(ids) != 2 || ids[1] != "T2" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestCoercion(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"12.5", 12.5},
		{" 3 ", 3},
		{int64(4), 4},
		{"inf", math.NaN()},
		{"", math.NaN()},
		{nil, math.NaN()},
		{true, math.NaN()},
	}
	for _, c := range cases {
		got := ToNumeric(c.in)
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Errorf("ToNumeric(%v) = %v, want NaN", c.in, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ToNumeric(%v) = %v, want %v", c.in, got, c.want)
		}
	}

	ts, ok := ToTime("2014-01-01T01:00:00+01:00", "")
	if !ok || !ts.Equal(time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("offset timestamp parsed wrong: %v %v", ts, ok)
	}
	if _, ok := ToTime("01/02/2014", ""); ok {
		t.Fatalf("unknown layout must not parse")
	}
	if ts, ok := ToTime("01/02/2014", "01/02/2006"); !ok || ts.Month() != time.January {
		t.Fatalf("explicit layout not honoured: %v", ts)
	}
	if got := ToID(80711.0); got != "80711" {
		t.Fatalf("integral float id rendered as %q", got)
	}
}
