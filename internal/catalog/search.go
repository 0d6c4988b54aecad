// Fuzzy-substring search, per spec.md §4.7. The distance function is a
// modified Damerau-Levenshtein edit distance where skipping any haystack
// prefix costs at most 1 (d[0][j] = min(j,1)) and any haystack suffix
// after the match is free (the result is the minimum of the last row), registered as a
// deterministic SQL UDF so the query planner can treat it as constant for
// identical inputs. github.com/jhprks/damerau (Ambrevar-demlo's dependency)
// was considered and rejected: it computes a plain two-string distance,
// not this boundary-free substring variant, so the matrix below is
// hand-rolled in the manner of Ambrevar-demlo/fuzzy.go (a small, isolated,
// pure-function file).
package catalog

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// driverName is a custom SQLite driver registration whose ConnectHook
// installs the FUZZY_DISTANCE UDF on every fresh connection, per spec.md
// §4.2/§4.7 ("registered per-connection as deterministic").
const driverName = "sqlite3_surfmt"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("FUZZY_DISTANCE", fuzzyDistance, true)
		},
	})
}

// fuzzyDistance computes the boundary-free substring edit distance
// described in spec.md §4.7, including the Damerau transposition case
// (spec.md §9).
func fuzzyDistance(needle, haystack string) int {
	n := []rune(needle)
	h := []rune(haystack)
	rows, cols := len(n)+1, len(h)+1

	d := make([][]int, rows)
	for i := range d {
		d[i] = make([]int, cols)
	}
	for i := 0; i < rows; i++ {
		d[i][0] = i
	}
	for j := 0; j < cols; j++ {
		if j == 0 {
			d[0][j] = 0
		} else {
			d[0][j] = 1
		}
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if n[i-1] == h[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && n[i-1] == h[j-2] && n[i-2] == h[j-1] {
				if trans := d[i-2][j-2] + 1; trans < best {
					best = trans
				}
			}
			d[i][j] = best
		}
	}
	best := d[rows-1][0]
	for _, v := range d[rows-1][1:] {
		if v < best {
			best = v
		}
	}
	return best
}

// stringNorm lowercases q for fuzzy comparison, in the manner of
// Ambrevar-demlo/fuzzy.go's stringNorm helper.
func stringNorm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Search implements GET /api/v1/search per spec.md §4.7: for each of
// {albums.title, tracks.title, artists.name, playlists.name}, rows whose
// fuzzy distance to q is at most round(|q| * 0.45) are returned as
// {uuid, score, type}, sorted by score ascending. Queries shorter than 2
// runes return an empty slice without invoking the UDF.
func (c *Catalog) Search(q string) ([]SearchHit, error) {
	q = stringNorm(q)
	if len([]rune(q)) < 2 {
		return []SearchHit{}, nil
	}
	threshold := int(math.Round(float64(len([]rune(q))) * 0.45))

	type source struct {
		table, idCol, nameCol, kind string
	}
	sources := []source{
		{"ALBUMS", "ID", "TITLE", "albums"},
		{"TRACKS", "ID", "TITLE", "tracks"},
		{"ARTISTS", "ID", "NAME", "artists"},
		{"PLAYLISTS", "ID", "NAME", "playlists"},
	}

	var out []SearchHit
	for _, s := range sources {
		query := fmt.Sprintf(`
			SELECT %s, FUZZY_DISTANCE(?, LOWER(%s)) AS score
			FROM %s
			WHERE score <= ?`, s.idCol, s.nameCol, s.table)
		rows, err := c.db.Query(query, q, threshold)
		if err != nil {
			return nil, fmt.Errorf("catalog: search %s: %w", s.table, err)
		}
		for rows.Next() {
			var id string
			var score int
			if err := rows.Scan(&id, &score); err != nil {
				rows.Close()
				return nil, fmt.Errorf("catalog: scan search row: %w", err)
			}
			out = append(out, SearchHit{ID: id, Score: float64(score), Type: s.kind})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out, nil
}
