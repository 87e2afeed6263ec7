package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// AppConfig holds every parameter of a run. There are no CLI flags; all
// values come from the environment (optionally via a .env file) with
// defaults for a typical single-station export.
type AppConfig struct {
	// Source selects the fetch strategy: the token-authenticated query
	// endpoint or the direct tabular download.
	Source string `validate:"oneof=cdo access"`

	// Token is the credential for the query endpoint.
	Token string `validate:"required_if=Source cdo"`

	Station   string    `validate:"required"`
	Start     time.Time `validate:"required"`
	End       time.Time `validate:"required,gtefield=Start"`
	DataTypes []string  `validate:"min=1"`

	OutputCSV  string `validate:"required"`
	OutputPNG  string `validate:"required"`
	PlotSeries string `validate:"oneof=max_temp_c min_temp_c avg_temp_c"`

	HTTPTimeout time.Duration

	// DatabaseURL enables the optional Postgres sink when non-empty.
	DatabaseURL string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Token = os.Getenv("NOAA_TOKEN")
	cfg.Source = getenvDefault("SOURCE", "cdo")
	cfg.Station = getenvDefault("STATION_ID", "GHCND:USW00023174")

	start, err := time.Parse(dateLayout, getenvDefault("START_DATE", "2024-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid START_DATE: %w", err)
	}
	cfg.Start = start

	end, err := time.Parse(dateLayout, getenvDefault("END_DATE", "2024-03-31"))
	if err != nil {
		return nil, fmt.Errorf("invalid END_DATE: %w", err)
	}
	cfg.End = end

	for _, dt := range strings.Split(getenvDefault("DATATYPES", "TMAX,TMIN,TAVG"), ",") {
		if dt = strings.TrimSpace(dt); dt != "" {
			cfg.DataTypes = append(cfg.DataTypes, dt)
		}
	}

	cfg.OutputCSV = getenvDefault("OUTPUT_CSV", "station_daily_temps.csv")
	cfg.OutputPNG = getenvDefault("OUTPUT_PNG", "station_daily_temps.png")
	cfg.PlotSeries = getenvDefault("PLOT_SERIES", "max_temp_c")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
