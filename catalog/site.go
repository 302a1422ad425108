// Package catalog holds the immutable collection of food resource sites the
// matching pipeline ranks and filters. Sites are loaded once at startup;
// reloads swap the whole snapshot atomically.
package catalog

import (
	"strings"
	"time"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Interval is an open period within a day, in 24h local hours. A site is
// open for hour h when Open <= h <= Close.
type Interval struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// TagSet is a set of free-text labels matched case-insensitively.
type TagSet []string

// Matches reports whether term matches any tag, case-insensitively, by
// exact or substring match in either direction.
func (ts TagSet) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for _, tag := range ts {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == term || strings.Contains(tag, term) || strings.Contains(term, tag) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether any of the terms matches the set.
func (ts TagSet) MatchesAny(terms []string) bool {
	for _, term := range terms {
		if ts.Matches(term) {
			return true
		}
	}
	return false
}

// Site is one catalogued resource location. Sites are immutable after load.
type Site struct {
	ID      string
	Name    string
	Address string
	Phone   string

	Coordinates    Coordinates
	HasCoordinates bool

	// Hours maps weekday to open intervals; absence means closed that day.
	Hours map[time.Weekday][]Interval

	CulturesServed     TagSet
	WraparoundServices TagSet
	FoodFormats        TagSet
	DistributionModels TagSet

	AppointmentRequired   bool
	TransportationSupport bool
}

// OpenAt reports whether the site has an interval covering t's hour on t's
// weekday.
func (s *Site) OpenAt(t time.Time) bool {
	hour := t.Hour()
	for _, iv := range s.Hours[t.Weekday()] {
		if iv.Open <= hour && hour <= iv.Close {
			return true
		}
	}
	return false
}

// HoursOn returns the intervals for a weekday, nil when closed.
func (s *Site) HoursOn(day time.Weekday) []Interval {
	return s.Hours[day]
}
