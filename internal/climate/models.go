package climate

import (
	"encoding/json"
	"time"
)

// Canonical column names of the normalized daily table.
const (
	ColDate = "date"
	ColMax  = "max_temp_c"
	ColMin  = "min_temp_c"
	ColAvg  = "avg_temp_c"
)

// canonicalNames maps GHCND datatype identifiers to canonical column names.
// Datatypes outside this map are passed through unrenamed.
var canonicalNames = map[string]string{
	"TMAX": ColMax,
	"TMIN": ColMin,
	"TAVG": ColAvg,
}

// Observation is a single long-form data point as returned by the
// token-authenticated query endpoint: one record per (date, datatype) pair.
// Temperature values are integers in tenths of a degree Celsius.
type Observation struct {
	Date     string      `json:"date"`
	DataType string      `json:"datatype"`
	Station  string      `json:"station"`
	Value    json.Number `json:"value"`
}

// RawTable is the tabular payload of the direct-download endpoint,
// straight out of the CSV parser: one row per date.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Payload is the raw result of a fetch, before normalization.
// Exactly one of Observations or Table is populated, depending on
// which source produced it.
type Payload struct {
	Observations []Observation
	Table        *RawTable
}

// Record is one normalized daily record. Temperature fields are in whole
// degrees Celsius; nil means the station did not report that variable for
// the day. Extra carries non-temperature columns from the direct source,
// verbatim under their source-native names.
type Record struct {
	Date     time.Time
	MaxTempC *float64
	MinTempC *float64
	AvgTempC *float64
	Extra    map[string]string
}

// Temp returns the value of the named canonical temperature column,
// or nil if the column is unknown or absent for this record.
func (r Record) Temp(column string) *float64 {
	switch column {
	case ColMax:
		return r.MaxTempC
	case ColMin:
		return r.MinTempC
	case ColAvg:
		return r.AvgTempC
	}
	return nil
}

// Table is the canonical wide-form result: one record per calendar date,
// strictly ascending, no duplicates. ExtraColumns lists passthrough column
// names in the order they were first seen in the source.
type Table struct {
	Records      []Record
	ExtraColumns []string
}

// Empty reports whether the table holds no records.
func (t Table) Empty() bool {
	return len(t.Records) == 0
}

// Columns returns the full header of the table in its fixed order:
// the canonical columns followed by any passthrough columns.
func (t Table) Columns() []string {
	cols := []string{ColDate, ColMax, ColMin, ColAvg}
	return append(cols, t.ExtraColumns...)
}
