package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

const dateLayout = "2006-01-02"

// resultCap is the fixed result-count cap submitted with each query.
const resultCap = 1000

// CDOSource implements the climate.Source interface for the
// token-authenticated Climate Data Online query endpoint. The response is a
// JSON envelope whose "results" key holds long-form observations.
type CDOSource struct {
	name    string
	token   string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewCDOSource(client *http.Client, token string) *CDOSource {
	return &CDOSource{
		name:    "cdo",
		token:   token,
		baseURL: "https://www.ncei.noaa.gov/cdo-web/api/v2/data",
		client:  client,
		circuit: newBreaker("cdo"),
	}
}

func (s *CDOSource) Name() string {
	return s.name
}

func (s *CDOSource) Fetch(ctx context.Context, req climate.Request) (climate.Payload, error) {
	if s.token == "" {
		return climate.Payload{}, fmt.Errorf("cdo token is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("datasetid", "GHCND")
		values.Set("stationid", req.Station)
		values.Set("startdate", req.Start.Format(dateLayout))
		values.Set("enddate", req.End.Format(dateLayout))
		for _, dt := range req.DataTypes {
			values.Add("datatypeid", dt)
		}
		values.Set("units", "metric")
		values.Set("limit", strconv.Itoa(resultCap))

		u := fmt.Sprintf("%s?%s", s.baseURL, values.Encode())
		r, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("token", s.token)
		return r, nil
	}

	resp, err := doRequest(ctx, s.client, s.circuit, buildRequest)
	if err != nil {
		return climate.Payload{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return climate.Payload{}, fmt.Errorf("%w: reading response body: %v", climate.ErrTransport, err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return climate.Payload{}, fmt.Errorf("%w: %v", climate.ErrMalformedEnvelope, err)
	}

	raw, ok := envelope["results"]
	if !ok {
		return climate.Payload{}, fmt.Errorf("%w: missing results key", climate.ErrMalformedEnvelope)
	}

	var obs []climate.Observation
	if err := json.Unmarshal(raw, &obs); err != nil {
		return climate.Payload{}, fmt.Errorf("%w: decoding results: %v", climate.ErrMalformedEnvelope, err)
	}

	if len(obs) == 0 {
		return climate.Payload{}, fmt.Errorf("%w: station %s between %s and %s",
			climate.ErrEmptyResult, req.Station, req.Start.Format(dateLayout), req.End.Format(dateLayout))
	}

	return climate.Payload{Observations: obs}, nil
}
