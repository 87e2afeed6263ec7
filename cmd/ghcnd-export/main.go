package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
	"github.com/lkuiucsb/ghcnd-export/internal/climate/sources"
	"github.com/lkuiucsb/ghcnd-export/internal/config"
	"github.com/lkuiucsb/ghcnd-export/internal/sink"
)

const dateLayout = "2006-01-02"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Shared HTTP client for the one outbound call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var source climate.Source
	switch cfg.Source {
	case "access":
		source = sources.NewAccessSource(httpClient)
	default:
		source = sources.NewCDOSource(httpClient, cfg.Token)
	}

	req := climate.Request{
		Station:   cfg.Station,
		Start:     cfg.Start,
		End:       cfg.End,
		DataTypes: cfg.DataTypes,
	}

	log.Printf("INFO: fetching %s for station %s (%s to %s) via %s",
		strings.Join(cfg.DataTypes, ","), cfg.Station,
		cfg.Start.Format(dateLayout), cfg.End.Format(dateLayout), source.Name())

	payload, err := source.Fetch(context.Background(), req)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	table, err := climate.Normalize(payload)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}
	log.Printf("INFO: normalized %d daily records", len(table.Records))

	if err := sink.WriteCSV(cfg.OutputCSV, table); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.OutputCSV, err)
	}
	log.Printf("INFO: wrote %s", cfg.OutputCSV)

	title := fmt.Sprintf("Daily %s for station %s, %s to %s",
		cfg.PlotSeries, cfg.Station, cfg.Start.Format(dateLayout), cfg.End.Format(dateLayout))
	if err := sink.RenderChart(cfg.OutputPNG, cfg.PlotSeries, title, table); err != nil {
		return fmt.Errorf("rendering %s: %w", cfg.OutputPNG, err)
	}

	if cfg.DatabaseURL != "" {
		pg := sink.NewPostgresSink(cfg.DatabaseURL)
		if err := pg.Store(cfg.Station, table); err != nil {
			return fmt.Errorf("postgres upload failed: %w", err)
		}
		log.Printf("INFO: uploaded %d records to postgres", len(table.Records))
	}

	printPreview(table)
	return nil
}

// printPreview echoes the header and the first few rows of the table so a
// successful run shows what was produced.
func printPreview(t climate.Table) {
	fmt.Println(strings.Join(t.Columns(), "\t"))
	for i, rec := range t.Records {
		if i >= 5 {
			fmt.Printf("... (%d rows total)\n", len(t.Records))
			return
		}
		row := []string{
			rec.Date.Format(dateLayout),
			previewTemp(rec.MaxTempC),
			previewTemp(rec.MinTempC),
			previewTemp(rec.AvgTempC),
		}
		for _, col := range t.ExtraColumns {
			row = append(row, rec.Extra[col])
		}
		fmt.Println(strings.Join(row, "\t"))
	}
}

func previewTemp(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}
