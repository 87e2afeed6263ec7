package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

// AccessSource implements the climate.Source interface for the direct
// tabular download endpoint. No credential is required; the response is a
// CSV payload with one row per date, no envelope.
type AccessSource struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewAccessSource(client *http.Client) *AccessSource {
	return &AccessSource{
		name:    "access",
		baseURL: "https://www.ncei.noaa.gov/access/services/data/v1",
		client:  client,
		circuit: newBreaker("access"),
	}
}

func (s *AccessSource) Name() string {
	return s.name
}

func (s *AccessSource) Fetch(ctx context.Context, req climate.Request) (climate.Payload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("dataset", "daily-summaries")
		// The download service expects the bare station id, without the
		// dataset prefix used by the query API.
		values.Set("stations", strings.TrimPrefix(req.Station, "GHCND:"))
		values.Set("startDate", req.Start.Format(dateLayout))
		values.Set("endDate", req.End.Format(dateLayout))
		values.Set("dataTypes", strings.Join(req.DataTypes, ","))
		values.Set("units", "metric")
		values.Set("format", "csv")

		u := fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, s.client, s.circuit, buildRequest)
	if err != nil {
		return climate.Payload{}, err
	}
	defer resp.Body.Close()

	rows, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return climate.Payload{}, fmt.Errorf("%w: %v", climate.ErrMalformedEnvelope, err)
	}

	if len(rows) <= 1 {
		return climate.Payload{}, fmt.Errorf("%w: station %s between %s and %s",
			climate.ErrEmptyResult, req.Station, req.Start.Format(dateLayout), req.End.Format(dateLayout))
	}

	return climate.Payload{Table: &climate.RawTable{Header: rows[0], Rows: rows[1:]}}, nil
}
