package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/common/httpx"
	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/config"
)

const defaultOpenCageEndpoint = "https://api.opencagedata.com/geocode/v1/json"

// OpenCage is a forward geocoder backed by the OpenCage API.
type OpenCage struct {
	endpoint string
	apiKey   string
	country  string
	timeout  time.Duration
	client   *httpx.Client
}

// NewOpenCage builds the geocoder from configuration.
func NewOpenCage(cfg config.GeocoderConfig, client *httpx.Client) *OpenCage {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenCageEndpoint
	}
	timeout := 3 * time.Second
	if cfg.TimeoutMs > 0 {
		timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return &OpenCage{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		country:  strings.ToLower(cfg.CountryCode),
		timeout:  timeout,
		client:   client,
	}
}

// Geocode resolves a postal code. Candidates whose country matches the
// configured hint are preferred; when none matches, the first candidate is
// used.
func (o *OpenCage) Geocode(ctx context.Context, postal string) (catalog.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	u, err := url.Parse(o.endpoint)
	if err != nil {
		return catalog.Coordinates{}, fmt.Errorf("geocoder endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", postal)
	q.Set("key", o.apiKey)
	q.Set("no_annotations", "1")
	if o.country != "" {
		q.Set("countrycode", o.country)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return catalog.Coordinates{}, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return catalog.Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return catalog.Coordinates{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return catalog.Coordinates{}, err
	}

	results := gjson.GetBytes(body, "results")
	if !results.Exists() || len(results.Array()) == 0 {
		return catalog.Coordinates{}, fmt.Errorf("no geocoding candidates for %s", postal)
	}

	chosen := o.pickCandidate(results.Array())
	coords := catalog.Coordinates{
		Lat: chosen.Get("geometry.lat").Float(),
		Lng: chosen.Get("geometry.lng").Float(),
	}
	logger.Infof("geocode: %s -> (%.5f, %.5f)", postal, coords.Lat, coords.Lng)
	return coords, nil
}

func (o *OpenCage) pickCandidate(candidates []gjson.Result) gjson.Result {
	if o.country == "" {
		return candidates[0]
	}
	for _, c := range candidates {
		code := strings.ToLower(c.Get("components.country_code").String())
		name := strings.ToLower(c.Get("components.country").String())
		if code == o.country || strings.Contains(name, countryName(o.country)) {
			return c
		}
	}
	return candidates[0]
}

func countryName(code string) string {
	if code == "us" {
		return "united states"
	}
	return code
}
