package timeseries

import "fmt"

// Frame is raw tabular data as handed over by a loader: named columns plus
// optional named index levels. Cells are whatever the source produced
// (strings from CSV, numbers or nil from a database, time.Time).
type Frame struct {
	rows       int
	columns    map[string][]any
	order      []string
	indexNames []string
	index      map[string][]any
}

// -----------------------------------------------------------------------------

func NewFrame(rows int) *Frame {
	return &Frame{
		rows:    rows,
		columns: make(map[string][]any),
		index:   make(map[string][]any),
	}
}

// -----------------------------------------------------------------------------

// NumRows returns the row count shared by all columns and index levels
func (f *Frame) NumRows() int {
	return f.rows
}

// -----------------------------------------------------------------------------

// AddColumn appends a column. Its length must match the frame's row count.
func (f *Frame) AddColumn(name string, values []any) error {
	if len(values) != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), f.rows)
	}
	if _, exists := f.columns[name]; !exists {
		f.order = append(f.order, name)
	}
	f.columns[name] = values
	return nil
}

// -----------------------------------------------------------------------------

// AddIndexLevel appends a level to the (possibly composite) row index.
func (f *Frame) AddIndexLevel(name string, values []any) error {
	if len(values) != f.rows {
		return fmt.Errorf("index level %q has %d values, frame has %d rows", name, len(values), f.rows)
	}
	if _, exists := f.index[name]; !exists {
		f.indexNames = append(f.indexNames, name)
	}
	f.index[name] = values
	return nil
}

// -----------------------------------------------------------------------------

func (f *Frame) Column(name string) ([]any, bool) {
	v, ok := f.columns[name]
	return v, ok
}

func (f *Frame) IndexLevel(name string) ([]any, bool) {
	v, ok := f.index[name]
	return v, ok
}

func (f *Frame) ColumnNames() []string {
	return append([]string(nil), f.order...)
}

func (f *Frame) IndexNames() []string {
	return append([]string(nil), f.indexNames...)
}

// -----------------------------------------------------------------------------

// axis finds a field that may live either as a column or as an index level.
// Columns win over index levels of the same name.
func (f *Frame) axis(name string) ([]any, bool) {
	if name == "" {
		return nil, false
	}
	if v, ok := f.columns[name]; ok {
		return v, true
	}
	if v, ok := f.index[name]; ok {
		return v, true
	}
	return nil, false
}

// soleIndex returns the only index level when the index is not composite
func (f *Frame) soleIndex() ([]any, bool) {
	if len(f.indexNames) != 1 {
		return nil, false
	}
	return f.index[f.indexNames[0]], true
}
