package scanner

import (
	"os"

	"surfmt/internal/catalog"
	"surfmt/internal/tagging"
)

// trackID implements spec.md §3's Track ID rule: the MusicBrainz
// Recording/Track tag if present, else a keyed hash of the file's raw
// byte content.
func trackID(path string, t *tagging.Tags) (string, error) {
	if t.TrackMBID != "" {
		return t.TrackMBID, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return catalog.HashID(data), nil
}

// albumID implements spec.md §3's Album ID rule: the MusicBrainz
// Release-Group/Album tag if present, else a hash of the concatenated
// album-artist string and album title.
func albumID(t *tagging.Tags) string {
	if t.AlbumMBID != "" {
		return t.AlbumMBID
	}
	albumArtistStr := ""
	for i, n := range t.AlbumArtistNames {
		if i > 0 {
			albumArtistStr += ","
		}
		albumArtistStr += n
	}
	return catalog.HashID([]byte(albumArtistStr + t.AlbumTitle))
}

// artistIDs implements spec.md §3's Artist IDs rule: MusicBrainz artist
// ids if the tag was present (one per artist, positionally — the caller
// is responsible for checking the lengths actually agree, per Invariant
// 4), else a hash of each artist name. A hash fallback only applies when
// the tag is absent; it never papers over a tag that tokenized to the
// wrong count.
func artistIDs(names []string, mbids []string) []string {
	if mbids != nil {
		return mbids
	}
	ids := make([]string, len(names))
	for i, n := range names {
		ids[i] = catalog.HashName(n)
	}
	return ids
}
