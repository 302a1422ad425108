// Package respond renders ranked results and the service's fixed notices as
// user-facing text. Translation happens after formatting, at the language
// gateway.
package respond

import (
	"fmt"
	"strings"
	"time"

	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/pipeline"
)

// Fixed user-visible notices. The Spanish renderings live in
// SpanishNotices so the static translator can serve them offline.
const (
	NoticeLocationUnresolved = "I couldn't determine your location. Please provide your ZIP code or enable location services."
	NoticeNoResults          = "I couldn't find any sites matching your request. Try adjusting your filters."
	NoticeGenericError       = "Sorry, I had trouble processing your request. Please try again."
)

// SpanishNotices maps each fixed notice to its Spanish rendering.
func SpanishNotices() map[string]string {
	return map[string]string{
		NoticeLocationUnresolved: "No pude determinar tu ubicación. Por favor, proporciona tu código postal o activa los servicios de ubicación.",
		NoticeNoResults:          "No encontré sitios que coincidan con tu solicitud. Intenta ajustar tus filtros.",
		NoticeGenericError:       "Lo siento, tuve problemas procesando tu solicitud. Por favor, intenta de nuevo.",
	}
}

// Mode selects the response header.
type Mode int

const (
	// Single responds with the nearest site only.
	Single Mode = iota
	// TopN responds with the top ranked sites.
	TopN
)

const (
	metersPerMile  = 1609.34
	blockSeparator = "\n\n---\n\n"
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Format renders the ranked results. An empty result set yields the
// no-results notice rather than an empty block list.
func Format(results []pipeline.Ranked, mode Mode, now time.Time) string {
	if len(results) == 0 {
		return NoticeNoResults
	}

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, formatSite(r, now))
	}

	header := "Here is the nearest food resource site I found:"
	if mode == TopN {
		header = fmt.Sprintf("Here are the %d nearest food resource sites I found:", len(results))
	}
	return header + "\n\n" + strings.Join(blocks, blockSeparator)
}

func formatSite(r pipeline.Ranked, now time.Time) string {
	site := r.Site
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", site.Name)
	if site.Address != "" {
		fmt.Fprintf(&b, "%s\n", site.Address)
	}
	fmt.Fprintf(&b, "%.2f miles away\n", r.DistanceMeters/metersPerMile)
	fmt.Fprintf(&b, "%s\n", openStatus(&site, now))

	b.WriteString("Hours:\n")
	for _, day := range weekdayOrder {
		fmt.Fprintf(&b, "  %s: %s\n", day, formatIntervals(site.HoursOn(day)))
	}

	if site.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", site.Phone)
	}
	writeTagLine(&b, "Cultures served", site.CulturesServed)
	writeTagLine(&b, "Services", site.WraparoundServices)
	writeTagLine(&b, "Food format", site.FoodFormats)
	writeTagLine(&b, "Distribution", site.DistributionModels)
	fmt.Fprintf(&b, "Appointment required: %s\n", yesNo(site.AppointmentRequired))
	fmt.Fprintf(&b, "Transportation support: %s", yesNo(site.TransportationSupport))

	return b.String()
}

func openStatus(site *catalog.Site, now time.Time) string {
	today := site.HoursOn(now.Weekday())
	if len(today) == 0 {
		return "Closed today"
	}
	if site.OpenAt(now) {
		return fmt.Sprintf("Open now (today %s)", formatIntervals(today))
	}
	return fmt.Sprintf("Closed now (today %s)", formatIntervals(today))
}

func formatIntervals(intervals []catalog.Interval) string {
	if len(intervals) == 0 {
		return "Closed"
	}
	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		parts = append(parts, fmt.Sprintf("%d:00-%d:00", iv.Open, iv.Close))
	}
	return strings.Join(parts, ", ")
}

func writeTagLine(b *strings.Builder, label string, tags catalog.TagSet) {
	if len(tags) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(tags, ", "))
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
