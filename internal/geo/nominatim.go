package geo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Place is a geocoding result.
type Place struct {
	DisplayName string         `json:"display_name"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Importance  float64        `json:"importance,omitempty"`
	Address     map[string]any `json:"address,omitempty"`
}

// ReverseResult is a reverse-geocoding result.
type ReverseResult struct {
	City        string `json:"city,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Nominatim is a rate-limited client for the OpenStreetMap Nominatim API.
// Nominatim's usage policy allows one request per second; the client blocks
// to honor it.
type Nominatim struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	log       *zap.Logger

	mu       sync.Mutex
	lastCall time.Time
}

const nominatimMinInterval = time.Second

// NewNominatim returns a client for the given base URL.
func NewNominatim(baseURL, userAgent string) *Nominatim {
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   10 * time.Second,
		log:       zap.L(),
	}
}

func (n *Nominatim) waitForRateLimit() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if wait := nominatimMinInterval - time.Since(n.lastCall); wait > 0 {
		time.Sleep(wait)
	}
	n.lastCall = time.Now()
}

// Search geocodes a free-text query into up to limit places.
func (n *Nominatim) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if len(strings.TrimSpace(query)) < 3 {
		return nil, fmt.Errorf("indirizzo troppo corto")
	}
	if limit <= 0 || limit > 10 {
		limit = 5
	}
	n.waitForRateLimit()

	var raw []struct {
		DisplayName string         `json:"display_name"`
		Lat         string         `json:"lat"`
		Lon         string         `json:"lon"`
		Importance  float64        `json:"importance"`
		Address     map[string]any `json:"address"`
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var code int
	err := gout.GET(n.baseURL+"/search").
		WithContext(ctx).
		SetHeader(gout.H{"User-Agent": n.userAgent}).
		SetQuery(gout.H{
			"q":              query,
			"format":         "json",
			"limit":          limit,
			"addressdetails": 1,
		}).
		BindJSON(&raw).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("geocoding non disponibile: %w", err)
	}
	if code != 200 {
		return nil, fmt.Errorf("geocoding non disponibile (HTTP %d)", code)
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		places = append(places, Place{
			DisplayName: r.DisplayName,
			Latitude:    cast.ToFloat64(r.Lat),
			Longitude:   cast.ToFloat64(r.Lon),
			Importance:  r.Importance,
			Address:     r.Address,
		})
	}
	return places, nil
}

// Reverse resolves coordinates into a place name.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error) {
	n.waitForRateLimit()

	var raw struct {
		DisplayName string `json:"display_name"`
		Address     struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
		} `json:"address"`
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var code int
	err := gout.GET(n.baseURL+"/reverse").
		WithContext(ctx).
		SetHeader(gout.H{"User-Agent": n.userAgent}).
		SetQuery(gout.H{
			"lat":    lat,
			"lon":    lon,
			"format": "json",
		}).
		BindJSON(&raw).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding non disponibile: %w", err)
	}
	if code != 200 {
		return nil, fmt.Errorf("reverse geocoding non disponibile (HTTP %d)", code)
	}

	city := raw.Address.City
	if city == "" {
		city = raw.Address.Town
	}
	if city == "" {
		city = raw.Address.Village
	}
	return &ReverseResult{City: city, DisplayName: raw.DisplayName}, nil
}
