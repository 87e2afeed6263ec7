package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lkuiucsb/ghcnd-export/internal/climate"
)

func TestAccessSourceFetch(t *testing.T) {
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("STATION,DATE,TMAX,TMIN\nUSW00023174,2024-06-15,300,150\n"))
	}))
	defer srv.Close()

	src := NewAccessSource(srv.Client())
	src.baseURL = srv.URL

	payload, err := src.Fetch(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The query API's dataset prefix must not leak into the download URL.
	if got := gotQuery["stations"]; len(got) != 1 || got[0] != "USW00023174" {
		t.Fatalf("expected bare station id, got %v", got)
	}
	if got := gotQuery["format"]; len(got) != 1 || got[0] != "csv" {
		t.Fatalf("expected format=csv, got %v", got)
	}
	if got := gotQuery["dataTypes"]; len(got) != 1 || got[0] != "TMAX,TMIN" {
		t.Fatalf("expected dataTypes=TMAX,TMIN, got %v", got)
	}

	if payload.Table == nil {
		t.Fatal("expected tabular payload")
	}
	if len(payload.Table.Header) != 4 || payload.Table.Header[1] != "DATE" {
		t.Fatalf("unexpected header: %v", payload.Table.Header)
	}
	if len(payload.Table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(payload.Table.Rows))
	}
}

func TestAccessSourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	src := NewAccessSource(srv.Client())
	src.baseURL = srv.URL

	if _, err := src.Fetch(context.Background(), testRequest()); !errors.Is(err, climate.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestAccessSourceHeaderOnlyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("STATION,DATE,TMAX,TMIN\n"))
	}))
	defer srv.Close()

	src := NewAccessSource(srv.Client())
	src.baseURL = srv.URL

	if _, err := src.Fetch(context.Background(), testRequest()); !errors.Is(err, climate.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}
