package sink

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

const dateLayout = "2006-01-02"

// WriteCSV serializes the canonical table to a comma-separated file. The
// header is always written, so an empty table produces a header-only file.
// Absent temperature cells become empty fields.
func WriteCSV(path string, t climate.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return err
	}

	for _, rec := range t.Records {
		row := []string{
			rec.Date.Format(dateLayout),
			formatTemp(rec.MaxTempC),
			formatTemp(rec.MinTempC),
			formatTemp(rec.AvgTempC),
		}
		for _, col := range t.ExtraColumns {
			row = append(row, rec.Extra[col])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatTemp(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
