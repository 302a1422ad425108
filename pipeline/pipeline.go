// Package pipeline ranks the site catalog by proximity and narrows it by
// the requested facets in a fixed stage order. All stages are pure and
// CPU-only; identical inputs always produce identical output.
package pipeline

import (
	"sort"
	"time"

	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/intent"
)

// Candidate pool size after the proximity stage, before facet narrowing.
const (
	poolSingle = 3
	poolMulti  = 10
)

// Final display caps, applied after all narrowing stages.
const (
	displaySingle = 1
	displayMulti  = 3
)

// Ranked is one site with its distance from the query location. A slice of
// Ranked is ordered nearest-first; an empty slice is the explicit
// no-results outcome, distinct from an error.
type Ranked struct {
	Site           catalog.Site
	DistanceMeters float64
}

// StageCount records the survivor count after one stage, in stage order.
type StageCount struct {
	Stage     string
	Survivors int
}

// Run executes the full pipeline. Every stage runs even over an empty set,
// so the stage trace is always complete. now supplies the clock for the
// open-now stage.
func Run(sites []catalog.Site, coords catalog.Coordinates, facets intent.FacetSet, wantsCount bool, now time.Time) ([]Ranked, []StageCount) {
	var trace []StageCount
	record := func(stage string, set []Ranked) []Ranked {
		trace = append(trace, StageCount{Stage: stage, Survivors: len(set)})
		return set
	}

	ranked := record("proximity", proximity(sites, coords, wantsCount))

	ranked = record("culture", filterTags(ranked, facets, intent.FacetCulture,
		func(s *catalog.Site) catalog.TagSet { return s.CulturesServed }))
	ranked = record("service", filterTags(ranked, facets, intent.FacetService,
		func(s *catalog.Site) catalog.TagSet { return s.WraparoundServices }))
	ranked = record("food_format", filterTags(ranked, facets, intent.FacetFoodFormat,
		func(s *catalog.Site) catalog.TagSet { return s.FoodFormats }))
	ranked = record("distribution_model", filterTags(ranked, facets, intent.FacetDistribution,
		func(s *catalog.Site) catalog.TagSet { return s.DistributionModels }))

	if facets.Has(intent.FacetOpenNow) {
		ranked = keep(ranked, func(r Ranked) bool { return r.Site.OpenAt(now) })
	}
	ranked = record("open_now", ranked)

	if facets.Has(intent.FacetAppointment) {
		ranked = keep(ranked, func(r Ranked) bool { return r.Site.AppointmentRequired })
	}
	ranked = record("appointment", ranked)

	if facets.Has(intent.FacetTransport) {
		ranked = keep(ranked, func(r Ranked) bool { return r.Site.TransportationSupport })
	}
	ranked = record("transportation", ranked)

	limit := displaySingle
	if wantsCount {
		limit = displayMulti
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	ranked = record("truncate", ranked)

	logger.Debugf("pipeline: %d stages, final survivors %d", len(trace), len(ranked))
	return ranked, trace
}

// proximity ranks every site with valid coordinates by ascending distance.
// The sort is stable, so equidistant sites keep catalog insertion order.
func proximity(sites []catalog.Site, coords catalog.Coordinates, wantsCount bool) []Ranked {
	ranked := make([]Ranked, 0, len(sites))
	for _, site := range sites {
		if !site.HasCoordinates {
			continue
		}
		ranked = append(ranked, Ranked{
			Site:           site,
			DistanceMeters: Distance(coords, site.Coordinates),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})
	pool := poolSingle
	if wantsCount {
		pool = poolMulti
	}
	if len(ranked) > pool {
		ranked = ranked[:pool]
	}
	return ranked
}

func filterTags(in []Ranked, facets intent.FacetSet, facet intent.Facet, tags func(*catalog.Site) catalog.TagSet) []Ranked {
	if !facets.Has(facet) {
		return in
	}
	terms := facets.Terms(facet)
	return keep(in, func(r Ranked) bool {
		return tags(&r.Site).MatchesAny(terms)
	})
}

func keep(in []Ranked, pred func(Ranked) bool) []Ranked {
	out := make([]Ranked, 0, len(in))
	for _, r := range in {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
