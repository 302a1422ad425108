package metrics

import (
	"testing"
	"time"
)

func TestStatsSnapshot(t *testing.T) {
	before := Stats()

	ObserveRequest("lookup", time.Now())
	ObserveRequest("open-ended", time.Now())
	ObserveUnresolved()
	ObserveEmptyResults()
	ObserveCollaboratorFailure("geocoder")
	ObserveGeocodeCache(true)
	ObserveGeocodeCache(false)
	ObserveStage("proximity", 3)

	after := Stats()
	if after.Requests != before.Requests+2 {
		t.Fatalf("requests = %d, want %d", after.Requests, before.Requests+2)
	}
	if after.Lookups != before.Lookups+1 {
		t.Fatalf("lookups = %d", after.Lookups)
	}
	if after.OpenEnded != before.OpenEnded+1 {
		t.Fatalf("open_ended = %d", after.OpenEnded)
	}
	if after.Unresolved != before.Unresolved+1 {
		t.Fatalf("unresolved = %d", after.Unresolved)
	}
	if after.EmptyResults != before.EmptyResults+1 {
		t.Fatalf("empty_results = %d", after.EmptyResults)
	}
	if after.CollaboratorErr != before.CollaboratorErr+1 {
		t.Fatalf("collaborator_errors = %d", after.CollaboratorErr)
	}
}
