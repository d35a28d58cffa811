package timeseries

import (
	"time"

	"windfarm-observer/src/models"
)

// ColumnSet records which measurement columns the source actually carried.
// A missing column and an all-NaN column mean different things downstream.
type ColumnSet struct {
	WindSpeed   bool
	Power       bool
	Temperature bool
}

// MeasurementTable is a normalized, time-indexed per-asset measurement table.
// Every operation returns new tables; the receiver is never mutated.
type MeasurementTable struct {
	records     []models.MScadaRecord
	columns     ColumnSet
	hasAssetIDs bool
}

// AssetGroup is one asset's rows in a table, by row index
type AssetGroup struct {
	AssetID string
	Rows    []int
}

// -----------------------------------------------------------------------------

// NewMeasurementTable builds a table from already-normalized records.
func NewMeasurementTable(records []models.MScadaRecord, columns ColumnSet, hasAssetIDs bool) *MeasurementTable {
	cp := make([]models.MScadaRecord, len(records))
	copy(cp, records)
	return &MeasurementTable{records: cp, columns: columns, hasAssetIDs: hasAssetIDs}
}

// -----------------------------------------------------------------------------

func (t *MeasurementTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

func (t *MeasurementTable) Columns() ColumnSet {
	if t == nil {
		return ColumnSet{}
	}
	return t.columns
}

func (t *MeasurementTable) HasAssetIDs() bool {
	return t != nil && t.hasAssetIDs
}

// Record returns row i by value
func (t *MeasurementTable) Record(i int) models.MScadaRecord {
	return t.records[i]
}

// Records returns a copy of all rows
func (t *MeasurementTable) Records() []models.MScadaRecord {
	if t == nil {
		return nil
	}
	cp := make([]models.MScadaRecord, len(t.records))
	copy(cp, t.records)
	return cp
}

// -----------------------------------------------------------------------------

// Times returns the timestamp series aligned row-for-row with the table
func (t *MeasurementTable) Times() []time.Time {
	out := make([]time.Time, t.Len())
	for i := range out {
		out[i] = t.records[i].Time
	}
	return out
}

// -----------------------------------------------------------------------------

// MaxTime returns the latest timestamp; ok is false for an empty table
func (t *MeasurementTable) MaxTime() (time.Time, bool) {
	if t.Len() == 0 {
		return time.Time{}, false
	}
	latest := t.records[0].Time
	for _, r := range t.records[1:] {
		if r.Time.After(latest) {
			latest = r.Time
		}
	}
	return latest, true
}

// -----------------------------------------------------------------------------

// WindowMask marks rows with start <= time <= end
func (t *MeasurementTable) WindowMask(start, end time.Time) []bool {
	mask := make([]bool, t.Len())
	for i := range mask {
		ts := t.records[i].Time
		mask[i] = !ts.Before(start) && !ts.After(end)
	}
	return mask
}

// -----------------------------------------------------------------------------

// AssetIDs returns the asset-id series aligned with the rows; ok is false
// when the source had no resolvable id axis.
func (t *MeasurementTable) AssetIDs() ([]string, bool) {
	if !t.HasAssetIDs() {
		return nil, false
	}
	out := make([]string, len(t.records))
	for i, r := range t.records {
		out[i] = r.AssetID
	}
	return out, true
}

// -----------------------------------------------------------------------------

// Filter keeps the rows whose mask entry is true
func (t *MeasurementTable) Filter(mask []bool) *MeasurementTable {
	out := &MeasurementTable{columns: t.Columns(), hasAssetIDs: t.HasAssetIDs()}
	for i := 0; i < t.Len() && i < len(mask); i++ {
		if mask[i] {
			out.records = append(out.records, t.records[i])
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// Window selects [end-duration, end] inclusive on both bounds
func (t *MeasurementTable) Window(end time.Time, duration time.Duration) *MeasurementTable {
	return t.Filter(t.WindowMask(end.Add(-duration), end))
}

// -----------------------------------------------------------------------------

// LatestSnapshot returns the rows at this table's own maximum timestamp
func (t *MeasurementTable) LatestSnapshot() (*MeasurementTable, time.Time) {
	latest, ok := t.MaxTime()
	if !ok {
		return t.Filter(nil), time.Time{}
	}
	mask := make([]bool, t.Len())
	for i, r := range t.records {
		mask[i] = r.Time.Equal(latest)
	}
	return t.Filter(mask), latest
}

// -----------------------------------------------------------------------------

// GroupByAsset groups row indices by asset id in first-appearance order.
// Returns nil when the id axis is unresolvable.
func (t *MeasurementTable) GroupByAsset() []AssetGroup {
	if !t.HasAssetIDs() {
		return nil
	}
	pos := make(map[string]int)
	var groups []AssetGroup
	for i, r := range t.records {
		idx, ok := pos[r.AssetID]
		if !ok {
			idx = len(groups)
			pos[r.AssetID] = idx
			groups = append(groups, AssetGroup{AssetID: r.AssetID})
		}
		groups[idx].Rows = append(groups[idx].Rows, i)
	}
	return groups
}

// -----------------------------------------------------------------------------

// Clone returns a deep copy so readers never share backing arrays
func (t *MeasurementTable) Clone() *MeasurementTable {
	if t == nil {
		return &MeasurementTable{}
	}
	return NewMeasurementTable(t.records, t.columns, t.hasAssetIDs)
}
