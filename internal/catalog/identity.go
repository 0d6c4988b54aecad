// Identity derivation per spec.md §3: MusicBrainz tags win when present;
// otherwise a keyed hash of the relevant bytes/strings stands in. Tag
// normalization (hyphen stripping, lowercasing) follows
// Ambrevar-demlo/demlo.go's MusicBrainz-tag handling.
package catalog

import (
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Two fixed, distinct seeds produce a 128-bit (32 hex char) identifier out
// of two independent 64-bit xxhash digests — the teacher's dependency
// graph carries cespare/xxhash/v2 (via its Redis client) but no single-call
// 128-bit keyed hash exists anywhere in this corpus, so the id is built
// from two halves.
const (
	hashSeedLo uint64 = 0x73757266_6d742d31 // "surfmt-1"
	hashSeedHi uint64 = 0x73757266_6d742d32 // "surfmt-2"
)

// NormalizeID lowercases a tag-supplied MusicBrainz id and strips hyphens,
// per spec.md §3 ("Tag-supplied IDs are normalized: hyphens removed,
// lowercased").
func NormalizeID(id string) string {
	id = strings.ToLower(id)
	id = strings.ReplaceAll(id, "-", "")
	return id
}

// HashID derives a 32-hex-character lowercase identifier by hashing data
// with a fixed key, for use when no MusicBrainz tag is present.
func HashID(data []byte) string {
	lo := xxhash.NewWithSeed(hashSeedLo)
	lo.Write(data)
	hi := xxhash.NewWithSeed(hashSeedHi)
	hi.Write(data)

	var buf [16]byte
	putUint64(buf[0:8], lo.Sum64())
	putUint64(buf[8:16], hi.Sum64())
	return hex.EncodeToString(buf[:])
}

// HashName is HashID over a name string, used for artist/album fallback
// identity when no MusicBrainz tag supplies one.
func HashName(name string) string {
	return HashID([]byte(strings.ToLower(strings.TrimSpace(name))))
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * (7 - i)))
	}
}
