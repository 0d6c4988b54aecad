package tagging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var coverArtExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
}

// FindCoverArt implements the cover-art discovery heuristic of spec.md
// §4.1: look in path's parent directory for regular files with extension
// .png/.jpg/.jpeg (case-insensitive); prefer the lexicographically-first
// file whose stem is "cover" or "folder" (case-insensitive); otherwise
// fall back to the lexicographically-first image of any name; otherwise
// return "". Grounded on the teacher's
// internal/scanner/local_artwork.go findArtworkFile, narrowed from a
// fixed candidate-name list to the spec's stem-match-or-any-image rule.
func FindCoverArt(path string) string {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var named, any []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !coverArtExtensions[ext] {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if stem == "cover" || stem == "folder" {
			named = append(named, name)
		} else {
			any = append(any, name)
		}
	}

	if len(named) > 0 {
		sort.Strings(named)
		return filepath.Join(dir, named[0])
	}
	if len(any) > 0 {
		sort.Strings(any)
		return filepath.Join(dir, any[0])
	}
	return ""
}
