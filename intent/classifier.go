// Package intent decides whether a query is a structured resource lookup or
// open-ended conversation, and extracts the facets the query asks for. The
// facet matchers form one ordered, data-driven table rather than scattered
// ad hoc checks, so each entry is testable on its own.
package intent

import (
	"regexp"
	"strings"

	"github.com/nourishdc/siteseeker/geocode"
)

// Intent is the routing decision for a query.
type Intent int

const (
	// OpenEnded delegates the query to the generative responder.
	OpenEnded Intent = iota
	// Lookup runs the structured matching pipeline.
	Lookup
)

func (i Intent) String() string {
	if i == Lookup {
		return "lookup"
	}
	return "open-ended"
}

// Facet names the filterable attribute categories a query can request.
type Facet string

const (
	FacetCulture      Facet = "culture"
	FacetService      Facet = "service"
	FacetFoodFormat   Facet = "food_format"
	FacetDistribution Facet = "distribution_model"
	FacetOpenNow      Facet = "open_now"
	FacetAppointment  Facet = "appointment"
	FacetTransport    Facet = "transportation"
)

// FacetSet records the facets a query requested, with the matched terms.
// Boolean facets (open-now, appointment, transportation) carry terms only
// for logging; the tag facets use them as membership filters.
type FacetSet map[Facet][]string

// Has reports whether the facet was requested.
func (fs FacetSet) Has(f Facet) bool {
	_, ok := fs[f]
	return ok
}

// Terms returns the matched terms for a facet.
func (fs FacetSet) Terms(f Facet) []string {
	return fs[f]
}

// Result is a classification outcome. Facets are recorded even for
// OpenEnded queries so a follow-up correction can reuse the extraction.
type Result struct {
	Intent     Intent
	Facets     FacetSet
	WantsCount bool
}

type facetMatcher struct {
	facet   Facet
	pattern *regexp.Regexp
}

// facetTable is applied in order against the lowercased query. Order is
// part of the contract: tag facets first, then the boolean facets.
var facetTable = []facetMatcher{
	{FacetCulture, regexp.MustCompile(`\b(halal|kosher|latino|latina|hispanic|african|ethiopian|asian|middle eastern|caribbean|vegetarian|vegan)\b`)},
	{FacetService, regexp.MustCompile(`\b(esl|health screening|dental|housing|job training|legal aid|benefits|snap|wic|clothing|counseling|case management)\b`)},
	{FacetFoodFormat, regexp.MustCompile(`\b(groceries|grocery|prepared meals?|hot meals?|pantry box(?:es)?|fresh produce|produce|canned goods?|shelf[- ]stable)\b`)},
	{FacetDistribution, regexp.MustCompile(`\b(drive[- ]?thru|drive[- ]?through|walk[- ]?up|home delivery|delivery|mobile market|pop[- ]?up)\b`)},
	{FacetOpenNow, regexp.MustCompile(`\bopen\s+(?:right\s+)?now\b|\bcurrently\s+open\b|\bopen\s+today\b`)},
	{FacetAppointment, regexp.MustCompile(`\bappointments?\b|\bwalk[- ]?ins?\b`)},
	{FacetTransport, regexp.MustCompile(`\btransportation\b|\btransport\b|\bshuttle\b|\bbus route\b|\bneed a ride\b`)},
}

// lookupVocabulary is the facet-independent vocabulary that marks a query
// as a structured lookup: proximity, hours, eligibility, services, and
// identity-group words.
var lookupVocabulary = regexp.MustCompile(
	`\b(near|nearby|nearest|closest|close by|around me|food bank|food pantry|pantry|pantries|` +
		`distribution|where can i|where is|where are|hours|open|eligible|eligibility|qualify|` +
		`requirements?|services|assistance|seniors?|veterans?|immigrants|refugees|families)\b`)

// countWords request multiple results: "top", "three", or a standalone 3.
var countWords = regexp.MustCompile(`\btop\b|\bthree\b|(?:^|[^0-9])3(?:[^0-9]|$)`)

// Classifier applies the matcher table. It is stateless and safe for
// concurrent use.
type Classifier struct{}

// NewClassifier returns a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify never fails: a query with no matches is OpenEnded with an empty
// facet set. Ambiguity between lookup and chat vocabulary resolves to
// Lookup, since a structured answer is the more correctable mistake.
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)

	facets := FacetSet{}
	for _, m := range facetTable {
		matches := m.pattern.FindAllString(lower, -1)
		if len(matches) > 0 {
			facets[m.facet] = dedupe(matches)
		}
	}

	wantsCount := countWords.MatchString(lower)
	_, hasPostal := geocode.ExtractPostalCode(text)

	decided := OpenEnded
	if lookupVocabulary.MatchString(lower) || hasPostal || wantsCount {
		decided = Lookup
	}
	return Result{Intent: decided, Facets: facets, WantsCount: wantsCount}
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
