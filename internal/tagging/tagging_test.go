package tagging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := tokenize("Artist A, Artist B; Artist C/Artist D")
	want := []string{"Artist A", "Artist B", "Artist C", "Artist D"}
	if len(got) != len(want) {
		t.Fatalf("tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := tokenize(""); got != nil {
		t.Fatalf("tokenize(\"\") = %v, want nil", got)
	}
}

func TestNormalizeID(t *testing.T) {
	got := normalizeID("F47AC10B-58CC-4372-A567-0E02B2C3D479")
	want := "f47ac10b58cc4372a5670e02b2c3d479"
	if got != want {
		t.Fatalf("normalizeID() = %q, want %q", got, want)
	}
}

func TestParseDate(t *testing.T) {
	raw := map[string]interface{}{"date": "2003-04-15"}
	y, m, d := parseDate(raw, 0)
	if y != 2003 || m != 4 || d != 15 {
		t.Fatalf("parseDate() = %d-%d-%d, want 2003-4-15", y, m, d)
	}
}

func TestParseDateYearOnlyFallsBackToTypedYear(t *testing.T) {
	y, m, d := parseDate(map[string]interface{}{}, 1999)
	if y != 1999 || m != 0 || d != 0 {
		t.Fatalf("parseDate() = %d-%d-%d, want 1999-0-0", y, m, d)
	}
}

func TestParseDateNonNumericComponent(t *testing.T) {
	raw := map[string]interface{}{"date": "2003-xx-15"}
	y, m, d := parseDate(raw, 0)
	if y != 2003 || m != 0 || d != 15 {
		t.Fatalf("parseDate() = %d-%d-%d, want 2003-0-15", y, m, d)
	}
}

func TestFindCoverArtPrefersCoverStem(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "back.jpg"))
	mustWrite(t, filepath.Join(dir, "cover.png"))
	track := filepath.Join(dir, "track.mp3")
	mustWrite(t, track)

	got := FindCoverArt(track)
	want := filepath.Join(dir, "cover.png")
	if got != want {
		t.Fatalf("FindCoverArt() = %q, want %q", got, want)
	}
}

func TestFindCoverArtFallsBackToAnyImage(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "zzz.jpg"))
	mustWrite(t, filepath.Join(dir, "aaa.jpeg"))
	track := filepath.Join(dir, "track.mp3")
	mustWrite(t, track)

	got := FindCoverArt(track)
	want := filepath.Join(dir, "aaa.jpeg")
	if got != want {
		t.Fatalf("FindCoverArt() = %q, want %q", got, want)
	}
}

func TestFindCoverArtNoneFound(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "track.mp3")
	mustWrite(t, track)

	if got := FindCoverArt(track); got != "" {
		t.Fatalf("FindCoverArt() = %q, want \"\"", got)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
