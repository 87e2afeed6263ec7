package climate

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Normalize converts a raw payload from either source into the canonical
// wide-form table: one record per date, temperatures in whole degrees
// Celsius, rows sorted by ascending date. An empty payload yields an empty
// table, not an error.
func Normalize(p Payload) (Table, error) {
	if p.Table != nil {
		return normalizeTable(p.Table)
	}
	return normalizeObservations(p.Observations)
}

// normalizeObservations pivots long-form (date, datatype, value) records
// into one row per date. Duplicate (date, datatype) pairs keep the later
// value and log a warning.
func normalizeObservations(obs []Observation) (Table, error) {
	byDate := make(map[time.Time]*Record)
	var extras []string
	seenExtra := make(map[string]bool)

	for _, o := range obs {
		day, err := parseDay(o.Date)
		if err != nil {
			return Table{}, err
		}

		rec, ok := byDate[day]
		if !ok {
			rec = &Record{Date: day}
			byDate[day] = rec
		}

		canonical, isTemp := canonicalNames[o.DataType]
		if !isTemp {
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			if _, dup := rec.Extra[o.DataType]; dup {
				log.Printf("duplicate %s observation for %s; keeping the later value", o.DataType, o.Date)
			}
			rec.Extra[o.DataType] = o.Value.String()
			if !seenExtra[o.DataType] {
				seenExtra[o.DataType] = true
				extras = append(extras, o.DataType)
			}
			continue
		}

		raw, err := o.Value.Float64()
		if err != nil {
			return Table{}, fmt.Errorf("%w: %q for %s on %s", ErrMalformedValue, o.Value.String(), o.DataType, o.Date)
		}
		v := raw / 10

		slot := slotFor(rec, canonical)
		if *slot != nil {
			log.Printf("duplicate %s observation for %s; keeping the later value", o.DataType, o.Date)
		}
		*slot = &v
	}

	return assemble(byDate, extras), nil
}

// normalizeTable scales the temperature columns of an already-tabular
// payload and parses its date column. Non-temperature columns pass through
// verbatim. Duplicate dates keep the later row and log a warning.
func normalizeTable(rt *RawTable) (Table, error) {
	if len(rt.Header) == 0 {
		return Table{}, nil
	}

	idx := make(map[string]int, len(rt.Header))
	for i, h := range rt.Header {
		idx[strings.TrimSpace(h)] = i
	}

	dateIdx, ok := idx["DATE"]
	if !ok {
		return Table{}, fmt.Errorf("%w: missing DATE column", ErrMalformedEnvelope)
	}

	var extras []string
	for _, h := range rt.Header {
		h = strings.TrimSpace(h)
		if h == "DATE" {
			continue
		}
		if _, isTemp := canonicalNames[h]; !isTemp {
			extras = append(extras, h)
		}
	}

	byDate := make(map[time.Time]*Record)
	for _, row := range rt.Rows {
		if dateIdx >= len(row) {
			return Table{}, fmt.Errorf("%w: row shorter than header", ErrMalformedEnvelope)
		}
		day, err := parseDay(row[dateIdx])
		if err != nil {
			return Table{}, err
		}

		if _, dup := byDate[day]; dup {
			log.Printf("duplicate rows for %s; keeping the later row", day.Format(dateLayout))
		}
		rec := &Record{Date: day}
		byDate[day] = rec

		for native, canonical := range canonicalNames {
			i, ok := idx[native]
			if !ok || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			raw, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return Table{}, fmt.Errorf("%w: %q in column %s on %s", ErrMalformedValue, cell, native, row[dateIdx])
			}
			v := raw / 10
			*slotFor(rec, canonical) = &v
		}

		for _, h := range extras {
			i := idx[h]
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[h] = cell
		}
	}

	return assemble(byDate, extras), nil
}

// parseDay truncates an optional time-of-day suffix and parses the
// remaining calendar date.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	day, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return day, nil
}

func slotFor(rec *Record, canonical string) **float64 {
	switch canonical {
	case ColMax:
		return &rec.MaxTempC
	case ColMin:
		return &rec.MinTempC
	default:
		return &rec.AvgTempC
	}
}

func assemble(byDate map[time.Time]*Record, extras []string) Table {
	records := make([]Record, 0, len(byDate))
	for _, rec := range byDate {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return Table{Records: records, ExtraColumns: extras}
}
