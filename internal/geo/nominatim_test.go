package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchRejectsShortQueries(t *testing.T) {
	n := NewNominatim("http://127.0.0.1:0", "test-agent")
	if _, err := n.Search(context.Background(), "mi", 5); err == nil {
		t.Fatal("short query accepted")
	}
	if _, err := n.Search(context.Background(), "  a  ", 5); err == nil {
		t.Fatal("padded short query accepted")
	}
}

func TestSearchParsesStringCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"display_name": "Milano, Lombardia, Italia",
				"lat":          "45.4642",
				"lon":          "9.19",
				"importance":   0.9,
			},
		})
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "test-agent")
	places, err := n.Search(context.Background(), "Milano", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	p := places[0]
	if p.Latitude != 45.4642 || p.Longitude != 9.19 {
		t.Errorf("string coordinates not parsed: %+v", p)
	}
	if p.DisplayName != "Milano, Lombardia, Italia" {
		t.Errorf("DisplayName = %q", p.DisplayName)
	}
}

func TestReverseCityFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		address map[string]any
		want    string
	}{
		{"city wins", map[string]any{"city": "Milano", "town": "x", "village": "y"}, "Milano"},
		{"town next", map[string]any{"town": "Segrate", "village": "y"}, "Segrate"},
		{"village last", map[string]any{"village": "Chiaravalle"}, "Chiaravalle"},
		{"nothing", map[string]any{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/reverse" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"display_name": "qualcosa",
					"address":      tt.address,
				})
			}))
			defer srv.Close()

			n := NewNominatim(srv.URL, "test-agent")
			res, err := n.Reverse(context.Background(), 45.4642, 9.19)
			if err != nil {
				t.Fatalf("Reverse failed: %v", err)
			}
			if res.City != tt.want {
				t.Errorf("City = %q, want %q", res.City, tt.want)
			}
		})
	}
}

func TestReverseUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "test-agent")
	if _, err := n.Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error for upstream 503")
	}
}
