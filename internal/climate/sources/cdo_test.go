package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

func testRequest() climate.Request {
	return climate.Request{
		Station:   "GHCND:USW00023174",
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		DataTypes: []string{"TMAX", "TMIN"},
	}
}

func TestCDOSourceFetch(t *testing.T) {
	var gotToken string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("token")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"metadata":{"resultset":{"count":2}},"results":[
			{"date":"2024-01-01T00:00:00","datatype":"TMAX","station":"GHCND:USW00023174","value":250},
			{"date":"2024-01-01T00:00:00","datatype":"TMIN","station":"GHCND:USW00023174","value":100}
		]}`))
	}))
	defer srv.Close()

	src := NewCDOSource(srv.Client(), "secret")
	src.baseURL = srv.URL

	payload, err := src.Fetch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotToken != "secret" {
		t.Fatalf("expected token header to be sent, got %q", gotToken)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "1000" {
		t.Fatalf("expected limit=1000, got %v", got)
	}
	if got := gotQuery["datatypeid"]; len(got) != 2 {
		t.Fatalf("expected two datatypeid params, got %v", got)
	}
	if got := gotQuery["units"]; len(got) != 1 || got[0] != "metric" {
		t.Fatalf("expected units=metric, got %v", got)
	}

	if len(payload.Observations) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(payload.Observations))
	}
	if payload.Table != nil {
		t.Fatalf("expected no tabular payload from cdo source")
	}
	if payload.Observations[0].DataType != "TMAX" {
		t.Fatalf("expected first observation TMAX, got %s", payload.Observations[0].DataType)
	}
}

func TestCDOSourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	src := NewCDOSource(srv.Client(), "secret")
	src.baseURL = srv.URL

	if _, err := src.Fetch(context.Background(), testRequest()); !errors.Is(err, climate.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestCDOSourceMissingResultsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metadata":{}}`))
	}))
	defer srv.Close()

	src := NewCDOSource(srv.Client(), "secret")
	src.baseURL = srv.URL

	if _, err := src.Fetch(context.Background(), testRequest()); !errors.Is(err, climate.ErrMalformedEnvelope) {
		t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
	}
}

func TestCDOSourceEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	src := NewCDOSource(srv.Client(), "secret")
	src.baseURL = srv.URL

	if _, err := src.Fetch(context.Background(), testRequest()); !errors.Is(err, climate.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestCDOSourceRequiresToken(t *testing.T) {
	src := NewCDOSource(http.DefaultClient, "")
	if _, err := src.Fetch(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error when token is missing")
	}
}
