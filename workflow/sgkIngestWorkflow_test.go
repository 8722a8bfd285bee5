package workflow

import (
	"testing"
	"time"

	"github.com/limansoft/liman_backend/models"
)

// NOTE: These tests are intentionally DB-free. They validate the
// reconciliation and path-layout semantics; the upload flow itself is
// covered in sgkIngestFlow_test.go against a mocked driver.

func TestPartitionRoster(t *testing.T) {
	roster := []models.RosterEmployee{
		{ID: 1, NationalID: "10000000146"},
		{ID: 2, NationalID: "20000000230"},
		{ID: 3, NationalID: "30000000314"},
	}
	pdfIds := []string{"10000000146", "30000000314", "99999999990"}

	diff := partitionRoster(roster, pdfIds)

	if len(diff.MatchedIds) != 2 || diff.MatchedIds[0] != 1 || diff.MatchedIds[1] != 3 {
		t.Fatalf("unexpected matched: %v", diff.MatchedIds)
	}
	if len(diff.MissingIds) != 1 || diff.MissingIds[0] != 2 {
		t.Fatalf("unexpected missing: %v", diff.MissingIds)
	}
	if len(diff.ExtraIds) != 1 || diff.ExtraIds[0] != "99999999990" {
		t.Fatalf("unexpected extra: %v", diff.ExtraIds)
	}
}

func TestPartitionRosterEmptyPdf(t *testing.T) {
	roster := []models.RosterEmployee{{ID: 1, NationalID: "10000000146"}}
	diff := partitionRoster(roster, nil)
	if len(diff.MatchedIds) != 0 || len(diff.MissingIds) != 1 || len(diff.ExtraIds) != 0 {
		t.Fatalf("unexpected diff: %+v", diff)
	}
}

func TestPartitionRosterEmptyRoster(t *testing.T) {
	diff := partitionRoster(nil, []string{"10000000146"})
	if len(diff.MatchedIds) != 0 || len(diff.MissingIds) != 0 || len(diff.ExtraIds) != 1 {
		t.Fatalf("unexpected diff: %+v", diff)
	}
}

func TestSanitizeFirmCode(t *testing.T) {
	cases := map[string]string{
		"AP-001":     "AP-001",
		"ap-001":     "AP-001",
		"Liman/İş 7": "LIMAN_7", // dotted capital İ is not [A-Z]; replaced like the rest
		"":           "FIRMA",
		"../../etc":  "_ETC",
		"A B\tC":     "A_B_C",
		"FIRMA_7-X":  "FIRMA_7-X",
	}
	for in, want := range cases {
		if got := sanitizeFirmCode(in); got != want {
			t.Errorf("sanitizeFirmCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStorageRelPath(t *testing.T) {
	now := time.Date(2024, time.November, 2, 9, 30, 15, 0, time.UTC)
	got := storageRelPath("ap-001", "202410", now, "a1b2c3d4")
	want := "AP-001/202410/20241102093015_a1b2c3d4.pdf"
	if got != want {
		t.Fatalf("storageRelPath = %q, want %q", got, want)
	}
}

func TestIsStaleUpload(t *testing.T) {
	cases := []struct {
		uploaded, active string
		stale            bool
	}{
		{"202410", "202410", false}, // current period
		{"202409", "202410", false}, // one behind is accepted
		{"202408", "202410", true},  // two behind is stale
		{"202310", "202410", true},
		{"202411", "202410", false}, // ahead of the active period
	}
	for _, c := range cases {
		if got := isStaleUpload(c.uploaded, c.active); got != c.stale {
			t.Errorf("isStaleUpload(%s, %s) = %v, want %v", c.uploaded, c.active, got, c.stale)
		}
	}
}
