package sink

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

// PostgresSink uploads the canonical table into a relational store. Each
// run replaces the station's previous rows, so re-running the export for
// the same station is idempotent.
type PostgresSink struct {
	connStr string
}

func NewPostgresSink(connStr string) *PostgresSink {
	return &PostgresSink{connStr: connStr}
}

// Store deletes the station's existing rows and batch-inserts the table.
func (s *PostgresSink) Store(station string, t climate.Table) error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`DELETE FROM station_daily_temps WHERE station_id = $1`, station); err != nil {
		return fmt.Errorf("clearing previous rows: %w", err)
	}

	if t.Empty() {
		return nil
	}

	stmt, args := buildInsert(station, t.Records)
	if _, err := db.Exec(stmt, args...); err != nil {
		return fmt.Errorf("inserting rows: %w", err)
	}
	return nil
}

// buildInsert produces a single multi-row INSERT. Nil temperature pointers
// are passed through and stored as NULL.
func buildInsert(station string, records []climate.Record) (string, []interface{}) {
	valueStrings := make([]string, 0, len(records))
	valueArgs := make([]interface{}, 0, len(records)*5)

	for i, rec := range records {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*5+1, i*5+2, i*5+3, i*5+4, i*5+5))
		valueArgs = append(valueArgs, station, rec.Date, rec.MaxTempC, rec.MinTempC, rec.AvgTempC)
	}

	stmt := fmt.Sprintf(
		"INSERT INTO station_daily_temps (station_id, obs_date, max_temp_c, min_temp_c, avg_temp_c) VALUES %s",
		strings.Join(valueStrings, ","))
	return stmt, valueArgs
}
