package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nourishdc/siteseeker/common/logger"
)

// siteRecord is the on-disk shape of one site.
type siteRecord struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Address               string           `json:"address"`
	Phone                 string           `json:"phone"`
	Latitude              *float64         `json:"latitude"`
	Longitude             *float64         `json:"longitude"`
	Hours                 map[string][]any `json:"hours"`
	CulturesServed        []string         `json:"cultures_served"`
	WraparoundServices    []string         `json:"wraparound_services"`
	FoodFormat            []string         `json:"food_format"`
	DistributionModel     []string         `json:"distribution_model"`
	AppointmentRequired   bool             `json:"appointment_required"`
	TransportationSupport bool             `json:"transportation_support"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadFile reads the site catalog from a JSON document of the form
// {"sites": [...]}. Malformed records are skipped with a warning; only an
// unreadable or undecodable source returns an error.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog JSON. See LoadFile.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Sites []json.RawMessage `json:"sites"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	sites := make([]Site, 0, len(doc.Sites))
	skipped := 0
	for i, raw := range doc.Sites {
		site, err := decodeSite(raw)
		if err != nil {
			skipped++
			logger.Warnf("catalog: skipping record %d: %v", i, err)
			continue
		}
		sites = append(sites, site)
	}
	if skipped > 0 {
		logger.Warnf("catalog: loaded %d sites, skipped %d malformed records", len(sites), skipped)
	} else {
		logger.Infof("catalog: loaded %d sites", len(sites))
	}
	return New(sites), nil
}

func decodeSite(raw json.RawMessage) (Site, error) {
	var rec siteRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Site{}, err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return Site{}, fmt.Errorf("missing id")
	}
	if strings.TrimSpace(rec.Name) == "" {
		return Site{}, fmt.Errorf("site %s: missing name", rec.ID)
	}

	site := Site{
		ID:                    rec.ID,
		Name:                  rec.Name,
		Address:               rec.Address,
		Phone:                 rec.Phone,
		CulturesServed:        TagSet(rec.CulturesServed),
		WraparoundServices:    TagSet(rec.WraparoundServices),
		FoodFormats:           TagSet(rec.FoodFormat),
		DistributionModels:    TagSet(rec.DistributionModel),
		AppointmentRequired:   rec.AppointmentRequired,
		TransportationSupport: rec.TransportationSupport,
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		site.Coordinates = Coordinates{Lat: *rec.Latitude, Lng: *rec.Longitude}
		site.HasCoordinates = true
	}
	if len(rec.Hours) > 0 {
		site.Hours = make(map[time.Weekday]([]Interval), len(rec.Hours))
		for day, spans := range rec.Hours {
			wd, ok := weekdays[strings.ToLower(day)]
			if !ok {
				logger.Warnf("catalog: site %s: unknown weekday %q, ignoring", rec.ID, day)
				continue
			}
			intervals := parseIntervals(rec.ID, spans)
			if len(intervals) > 0 {
				site.Hours[wd] = intervals
			}
		}
	}
	return site, nil
}

// parseIntervals accepts entries of the form [open, close]. Anything else
// is ignored with a warning so one bad span never drops the whole site.
func parseIntervals(id string, spans []any) []Interval {
	var out []Interval
	for _, span := range spans {
		pair, ok := span.([]any)
		if !ok || len(pair) != 2 {
			logger.Warnf("catalog: site %s: malformed hours span %v, ignoring", id, span)
			continue
		}
		openHour, okOpen := asHour(pair[0])
		closeHour, okClose := asHour(pair[1])
		if !okOpen || !okClose || openHour > closeHour {
			logger.Warnf("catalog: site %s: invalid hours span %v, ignoring", id, span)
			continue
		}
		out = append(out, Interval{Open: openHour, Close: closeHour})
	}
	return out
}

func asHour(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	h := int(f)
	if h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
