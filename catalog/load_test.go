package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const catalogDoc = `{
  "sites": [
    {
      "id": "s1",
      "name": "Capital Area Food Bank",
      "address": "4900 Puerto Rico Ave NE, Washington, DC 20017",
      "phone": "202-644-9800",
      "latitude": 38.9385,
      "longitude": -76.9894,
      "hours": {"monday": [[9, 14]], "friday": [[8, 11], [15, 18]]},
      "cultures_served": ["Latino", "Halal"],
      "wraparound_services": ["SNAP enrollment"],
      "food_format": ["groceries"],
      "distribution_model": ["walk-up"],
      "appointment_required": false,
      "transportation_support": true
    },
    {
      "name": "missing id"
    },
    {
      "id": "s3"
    },
    {
      "id": "s4",
      "name": "No Coordinates Pantry"
    },
    {
      "id": "s5",
      "name": "Bad Hours Pantry",
      "hours": {"monday": [[9]], "funday": [[9, 14]], "tuesday": [[18, 9]], "wednesday": [[9, "x"]], "thursday": [[10, 12]]}
    }
  ]
}`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(catalogDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sites := cat.Sites()
	// s1, s4, s5 survive; the records without id or name are skipped.
	if len(sites) != 3 {
		t.Fatalf("loaded %d sites, want 3", len(sites))
	}

	s1 := sites[0]
	if s1.ID != "s1" || s1.Name != "Capital Area Food Bank" {
		t.Fatalf("first site = %+v", s1)
	}
	if !s1.HasCoordinates || s1.Coordinates.Lat != 38.9385 {
		t.Fatalf("coordinates = %+v", s1.Coordinates)
	}
	if got := s1.Hours[time.Friday]; len(got) != 2 || got[1] != (Interval{Open: 15, Close: 18}) {
		t.Fatalf("friday hours = %v", got)
	}
	if !s1.CulturesServed.Matches("halal") {
		t.Fatalf("cultures = %v", s1.CulturesServed)
	}
	if s1.AppointmentRequired || !s1.TransportationSupport {
		t.Fatalf("flags = %v %v", s1.AppointmentRequired, s1.TransportationSupport)
	}

	s4 := sites[1]
	if s4.HasCoordinates {
		t.Fatal("site without latitude must not report coordinates")
	}

	// Only the well-formed thursday span survives on s5.
	s5 := sites[2]
	if len(s5.Hours) != 1 || len(s5.Hours[time.Thursday]) != 1 {
		t.Fatalf("s5 hours = %v, want thursday only", s5.Hours)
	}
}

func TestParseRejectsBadDocument(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected error for undecodable document")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cat, err := Parse([]byte(`{"sites": []}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("Len = %d, want 0", cat.Len())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.json")
	if err := os.WriteFile(path, []byte(catalogDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cat.Len())
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCatalogReplace(t *testing.T) {
	cat := New([]Site{{ID: "a", Name: "A"}})
	before := cat.Sites()
	cat.Replace([]Site{{ID: "b", Name: "B"}, {ID: "c", Name: "C"}})
	if cat.Len() != 2 {
		t.Fatalf("Len after Replace = %d", cat.Len())
	}
	// The old snapshot stays intact for readers holding it.
	if len(before) != 1 || before[0].ID != "a" {
		t.Fatalf("old snapshot mutated: %v", before)
	}
	cat.Replace(nil)
	if cat.Sites() == nil || cat.Len() != 0 {
		t.Fatal("Replace(nil) must install an empty, non-nil snapshot")
	}
}
