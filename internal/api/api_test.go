package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surfmt/internal/catalog"
)

func TestCoverArtContentTypeNormalizesJPG(t *testing.T) {
	cases := map[string]string{
		"/x/cover.jpg":  "image/jpeg",
		"/x/cover.JPG":  "image/jpeg",
		"/x/cover.jpeg": "image/jpeg",
		"/x/cover.png":  "image/png",
		"/x/cover":      "image/xyz",
	}
	for path, want := range cases {
		assert.Equal(t, want, coverArtContentType(path), "path %q", path)
	}
}

func TestSplitTrackTokensCommaAndNewline(t *testing.T) {
	got := splitTrackTokens([]byte("t1,t2\nt3"))
	assert.Equal(t, []string{"t1", "t2", "t3"}, got)
}

func TestSplitTrackTokensDropsBlankTokens(t *testing.T) {
	got := splitTrackTokens([]byte("t1,,t2\n\nt3,"))
	assert.Len(t, got, 3)
}

func TestParseByteRangeBothBoundsPresent(t *testing.T) {
	start, end, err := parseByteRange("bytes=0-15")
	require.NoError(t, err)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(15), end)
}

func TestParseByteRangeEmptyBoundsFillZero(t *testing.T) {
	// spec.md's "ambiguous behavior to not guess" note: the source fills
	// an empty bound with 0 rather than the RFC open-ended meaning.
	start, end, err := parseByteRange("bytes=-500")
	require.NoError(t, err)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(500), end)

	start, end, err = parseByteRange("bytes=500-")
	require.NoError(t, err)
	assert.Equal(t, int64(500), start)
	assert.Equal(t, int64(0), end)
}

func TestParseByteRangeMalformed(t *testing.T) {
	_, _, err := parseByteRange("bytes=garbage")
	require.Error(t, err)
}

func TestParseHTTPDateRFC1123(t *testing.T) {
	v := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC1123)
	got, ok := parseHTTPDate(v)
	require.True(t, ok, "parseHTTPDate(%q) failed to parse", v)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
}

func TestParseHTTPDateGMTSuffix(t *testing.T) {
	_, ok := parseHTTPDate("Fri, 01 Mar 2024 12:00:00 GMT")
	assert.True(t, ok, "expected GMT-suffixed date to parse")
}

func TestAlbumListFromCatalogComputesTotalDurationInMinutes(t *testing.T) {
	a := catalog.Album{ID: "a1", Title: "T", DurationMs: 120000}
	got := albumListFromCatalog(a)
	assert.Equal(t, 2.0, got.TotalDuration)
}

func TestArtistFromCatalogNeverEmitsNilSlices(t *testing.T) {
	got := artistFromCatalog(catalog.Artist{ID: "ar1", Name: "Ar"})
	assert.NotNil(t, got.Albums)
	assert.NotNil(t, got.Appearances)
}
