package timeseries

import "windfarm-observer/src/models"

// AssetColumnSet records which asset columns the source carried
type AssetColumnSet struct {
	AssetID    bool
	Latitude   bool
	Longitude  bool
	RatedPower bool
}

// AssetTable is the normalized static per-asset table
type AssetTable struct {
	records []models.MAsset
	columns AssetColumnSet
}

// -----------------------------------------------------------------------------

func NewAssetTable(records []models.MAsset, columns AssetColumnSet) *AssetTable {
	cp := make([]models.MAsset, len(records))
	copy(cp, records)
	return &AssetTable{records: cp, columns: columns}
}

// -----------------------------------------------------------------------------

func (a *AssetTable) Len() int {
	if a == nil {
		return 0
	}
	return len(a.records)
}

func (a *AssetTable) Columns() AssetColumnSet {
	if a == nil {
		return AssetColumnSet{}
	}
	return a.columns
}

func (a *AssetTable) Records() []models.MAsset {
	if a == nil {
		return nil
	}
	cp := make([]models.MAsset, len(a.records))
	copy(cp, a.records)
	return cp
}

// -----------------------------------------------------------------------------

// TurbineIDs lists asset ids in table order; empty when the id column is absent
func (a *AssetTable) TurbineIDs() []string {
	if !a.Columns().AssetID {
		return nil
	}
	ids := make([]string, 0, len(a.records))
	for _, r := range a.records {
		ids = append(ids, r.AssetID)
	}
	return ids
}

// -----------------------------------------------------------------------------

// RatedPowers returns the rated power column in MW (NaN where unparsable);
// ok is false when the column is absent.
func (a *AssetTable) RatedPowers() ([]float64, bool) {
	if !a.Columns().RatedPower {
		return nil, false
	}
	out := make([]float64, len(a.records))
	for i, r := range a.records {
		out[i] = r.RatedPowerMW
	}
	return out, true
}

// -----------------------------------------------------------------------------

func (a *AssetTable) Clone() *AssetTable {
	if a == nil {
		return &AssetTable{}
	}
	return NewAssetTable(a.records, a.columns)
}
