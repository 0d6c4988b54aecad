package scanner

import (
	"testing"

	"surfmt/internal/tagging"
)

func TestTrackIDPrefersMBID(t *testing.T) {
	got, err := trackID("", &tagging.Tags{TrackMBID: "abc123"})
	if err != nil {
		t.Fatalf("trackID: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("trackID() = %q, want %q", got, "abc123")
	}
}

func TestAlbumIDPrefersMBID(t *testing.T) {
	got := albumID(&tagging.Tags{AlbumMBID: "xyz789"})
	if got != "xyz789" {
		t.Fatalf("albumID() = %q, want %q", got, "xyz789")
	}
}

func TestAlbumIDDeterministicWithoutMBID(t *testing.T) {
	tags := &tagging.Tags{AlbumArtistNames: []string{"The Band"}, AlbumTitle: "Album"}
	a := albumID(tags)
	b := albumID(tags)
	if a != b {
		t.Fatalf("albumID not deterministic: %q != %q", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("albumID length = %d, want 32", len(a))
	}
}

func TestArtistIDsHashesNamesWhenTagAbsent(t *testing.T) {
	names := []string{"A", "B"}
	ids := artistIDs(names, nil)
	if len(ids) != len(names) {
		t.Fatalf("artistIDs() len = %d, want %d", len(ids), len(names))
	}
}

func TestArtistIDsUsesMBIDsWhenLengthsMatch(t *testing.T) {
	names := []string{"A", "B"}
	mbids := []string{"id-a", "id-b"}
	ids := artistIDs(names, mbids)
	if ids[0] != "id-a" || ids[1] != "id-b" {
		t.Fatalf("artistIDs() = %v, want %v", ids, mbids)
	}
}

func TestArtistIDsPassesThroughMismatchedMBIDCountForCallerToSkip(t *testing.T) {
	// artistIDs itself does not hash-fallback on a count mismatch when the
	// tag was present; the caller (ingestFile) is the one that compares
	// lengths and skips the file, per Invariant 4.
	names := []string{"A", "B"}
	ids := artistIDs(names, []string{"only-one"})
	if len(ids) != 1 {
		t.Fatalf("artistIDs() len = %d, want 1 (passed through, not hashed)", len(ids))
	}
}

func TestLatestModTimeZeroBeforeAnyScan(t *testing.T) {
	s := New()
	if !s.LatestModTime().IsZero() {
		t.Fatalf("LatestModTime() before any scan should be zero")
	}
}
