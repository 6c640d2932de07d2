package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/example/samsa/internal/zone"
)

// ZoneLookup is the outcome of an address delivery check. Found=false means
// the address could not be resolved at all, which callers must present
// differently from a resolved address outside every zone.
type ZoneLookup struct {
	Found      bool      `json:"found"`
	Address    string    `json:"address,omitempty"`
	DistanceKm float64   `json:"distanceKm,omitempty"`
	Zone       zone.Zone `json:"zone,omitempty"`
}

// GeocodeService resolves free-text addresses through the zone collaborator.
type GeocodeService struct {
	baseURL string
	client  *http.Client
}

// NewGeocodeService constructs a GeocodeService.
func NewGeocodeService(baseURL string) *GeocodeService {
	return &GeocodeService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Found      bool    `json:"found"`
	Address    string  `json:"address"`
	DistanceKm float64 `json:"distance_km"`
	Zone       string  `json:"zone"`
}

// Lookup resolves address to a delivery zone. The zone is always re-derived
// locally from the returned distance; the upstream label is only compared
// and logged when it disagrees.
func (s *GeocodeService) Lookup(address string) (ZoneLookup, error) {
	if s.baseURL == "" {
		return ZoneLookup{}, fmt.Errorf("geocoder is not configured")
	}

	target := s.baseURL + "?address=" + url.QueryEscape(address)
	resp, err := s.client.Get(target)
	if err != nil {
		return ZoneLookup{}, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ZoneLookup{}, fmt.Errorf("read geocode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ZoneLookup{}, fmt.Errorf("geocode request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ZoneLookup{}, fmt.Errorf("unmarshal geocode response: %w", err)
	}

	if !parsed.Found {
		return ZoneLookup{Found: false}, nil
	}

	derived := zone.Classify(parsed.DistanceKm)
	if parsed.Zone != string(derived) {
		log.Printf("[Geocode] upstream zone %q disagrees with derived %q at %.2f km", parsed.Zone, derived, parsed.DistanceKm)
	}

	return ZoneLookup{
		Found:      true,
		Address:    parsed.Address,
		DistanceKm: parsed.DistanceKm,
		Zone:       derived,
	}, nil
}
