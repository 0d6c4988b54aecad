// Package tagging extracts the structured tag record spec.md §4.1
// describes from a single audio file: container/stream metadata via
// ffprobe (ffprobe.go, grounded on the teacher's
// internal/scanner/ffprobe.go) and textual tags via
// github.com/dhowden/tag, the only dedicated audio-tag library in this
// corpus. dhowden/tag's Metadata interface supplies standardized
// accessors (Title/Album/Artist/AlbumArtist/Year/Track/Disc); its Raw()
// map ("tag/atom names are not standardised between formats" per the
// library's own doc comment) is consulted only for the values that
// interface has no typed accessor for: the multi-valued ARTISTS tag, the
// MusicBrainz id tags, and the full date keys spec.md §4.1 names.
package tagging

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dhowden/tag"

	"surfmt/internal/apperr"
)

// Tags is the structured record the scanner upserts into the catalog.
type Tags struct {
	Format     string
	Bitrate    int
	DurationMs int

	Title      string
	AlbumTitle string

	ArtistNames []string
	ArtistIDs   []string // from MusicBrainz tags only; nil if the tag is absent

	AlbumArtistNames []string
	AlbumArtistIDs   []string // from MusicBrainz tags only; nil if the tag is absent

	AlbumMBID string // MusicBrainz Release-Group/Album id, normalized; "" if absent
	TrackMBID string // MusicBrainz Recording/Track id, normalized; "" if absent

	Year, Month, Day  int
	TrackNum, DiscNum int

	CoverArtPath string // "" if none found
}

var delimiterRE = regexp.MustCompile(`[,|;/]`)

// tokenize splits a multi-artist tag value on the delimiter set spec.md
// §4.1 names, trimming whitespace and discarding empty tokens.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	parts := delimiterRE.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// rawStringByAnyKey returns the first non-empty string value whose map
// key equals, case-insensitively, one of keys, trying keys in the order
// given, since dhowden/tag's Raw() keys vary by container.
func rawStringByAnyKey(raw map[string]interface{}, keys ...string) string {
	for _, want := range keys {
		for k, v := range raw {
			if strings.EqualFold(k, want) {
				if s, ok := v.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func normalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// Extract opens path as a tagged media container and builds its Tags
// record. Missing any of TITLE/ALBUM/ARTIST/ARTISTS-or-ARTIST/
// album_artist-or-ALBUMARTIST-or-ARTIST fails with apperr.TagError, per
// spec.md §4.1.
func Extract(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.TagError("open file", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, apperr.TagError("read tags", err)
	}
	raw := m.Raw()

	title := m.Title()
	albumTitle := m.Album()

	artistStr := rawStringByAnyKey(raw, "ARTISTS")
	if artistStr == "" {
		artistStr = m.Artist()
	}
	albumArtistStr := m.AlbumArtist()
	if albumArtistStr == "" {
		albumArtistStr = m.Artist()
	}

	if title == "" || albumTitle == "" || m.Artist() == "" || artistStr == "" || albumArtistStr == "" {
		return nil, apperr.TagError("missing required tag", fmt.Errorf("missing one of TITLE/ALBUM/ARTIST(S)/ALBUMARTIST"))
	}

	artistNames := tokenize(artistStr)
	albumArtistNames := tokenize(albumArtistStr)
	if len(artistNames) == 0 || len(albumArtistNames) == 0 {
		return nil, apperr.TagError("missing required tag", fmt.Errorf("artist/album-artist tag tokenized to empty list"))
	}

	probe, err := Probe(path)
	if err != nil {
		return nil, apperr.TagError("probe audio stream", err)
	}

	year, month, day := parseDate(raw, m.Year())
	trackNum, _ := m.Track()
	discNum, _ := m.Disc()

	trackMBID := normalizeIfPresent(rawStringByAnyKey(raw, "MusicBrainz Track Id", "MUSICBRAINZ_TRACKID", "UFID"))
	albumMBID := normalizeIfPresent(rawStringByAnyKey(raw, "MusicBrainz Release Group Id", "MUSICBRAINZ_RELEASEGROUPID", "MusicBrainz Album Id", "MUSICBRAINZ_ALBUMID"))
	artistMBIDStr := rawStringByAnyKey(raw, "MusicBrainz Artist Id", "MUSICBRAINZ_ARTISTID")
	albumArtistMBIDStr := rawStringByAnyKey(raw, "MusicBrainz Album Artist Id", "MUSICBRAINZ_ALBUMARTISTID")

	t := &Tags{
		Format:           probe.Format,
		Bitrate:          probe.Bitrate,
		DurationMs:       probe.DurationMs,
		Title:            title,
		AlbumTitle:       albumTitle,
		ArtistNames:      artistNames,
		AlbumArtistNames: albumArtistNames,
		AlbumMBID:        albumMBID,
		TrackMBID:        trackMBID,
		Year:             year,
		Month:            month,
		Day:              day,
		TrackNum:         trackNum,
		DiscNum:          discNum,
	}

	// Tokenized directly, with no count check against the names list: the
	// original (mediascan.cpp's audio_tag::populate) defers that
	// comparison to scan time and skips the whole file on mismatch
	// (Invariant 4) rather than silently falling back to hashed ids here.
	if artistMBIDStr != "" {
		t.ArtistIDs = normalizeIDs(tokenize(artistMBIDStr))
	}
	if albumArtistMBIDStr != "" {
		t.AlbumArtistIDs = normalizeIDs(tokenize(albumArtistMBIDStr))
	}

	t.CoverArtPath = FindCoverArt(path)
	return t, nil
}

func normalizeIfPresent(id string) string {
	if id == "" {
		return ""
	}
	return normalizeID(id)
}

func normalizeIDs(ids []string) []string {
	for i, id := range ids {
		ids[i] = normalizeID(id)
	}
	return ids
}

// parseDate reads the first available of {date, originaldate, year,
// originalyear, TORY} from the raw tag map, splitting on "-" into
// (year, month, day), replacing any non-numeric component with 0, per
// spec.md §4.1. Falls back to the typed Year() accessor if none of
// those raw keys are present.
func parseDate(raw map[string]interface{}, typedYear int) (year, month, day int) {
	s := rawStringByAnyKey(raw, "date", "originaldate", "year", "originalyear", "TORY")
	if s == "" {
		return typedYear, 0, 0
	}
	parts := strings.SplitN(s, "-", 3)
	vals := [3]int{0, 0, 0}
	for i := 0; i < 3 && i < len(parts); i++ {
		vals[i] = atoiOrZero(strings.TrimSpace(parts[i]))
	}
	return vals[0], vals[1], vals[2]
}

func atoiOrZero(s string) int {
	n := 0
	any := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		any = true
		n = n*10 + int(r-'0')
	}
	if !any {
		return 0
	}
	return n
}
