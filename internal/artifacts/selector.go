package artifacts

import (
	"sort"
	"strings"
	"time"

	"github.com/profitscout/scout-api/pkg/storage"
)

// Candidate is one stored object annotated for selection
type Candidate struct {
	Name    string
	Updated time.Time
	Date    string // embedded YYYY-MM-DD token, empty when absent
	Ext     string
	ExtRank int // index into the dataset's extension policy, 0 = most preferred
}

// matchExtension returns the first policy extension the name ends with,
// together with its preference rank.
func matchExtension(name string, exts []string) (string, int, bool) {
	for rank, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return ext, rank, true
		}
	}
	return "", 0, false
}

// SelectBest resolves the single best artifact among candidates.
//
// Candidates whose names match no policy extension are discarded. The rest
// are ordered by embedded date (newest first; undated last), then extension
// preference, then storage modification time. With asOf == "latest" the head
// of that order wins; otherwise the first candidate whose embedded date
// equals asOf exactly wins. Returns false when nothing qualifies.
func SelectBest(objects []storage.Object, dataset, asOf string) (Candidate, bool) {
	exts := ExtensionsFor(dataset)

	candidates := make([]Candidate, 0, len(objects))
	for _, obj := range objects {
		ext, rank, ok := matchExtension(obj.Name, exts)
		if !ok {
			continue
		}

		date, _ := ExtractDate(obj.Name)
		candidates = append(candidates, Candidate{
			Name:    obj.Name,
			Updated: obj.Updated,
			Date:    date,
			Ext:     ext,
			ExtRank: rank,
		})
	}

	if len(candidates) == 0 {
		return Candidate{}, false
	}

	// Recency dominates, then format preference, then storage freshness.
	// Undated candidates compare as the empty string and sort last.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date > candidates[j].Date
		}
		if candidates[i].ExtRank != candidates[j].ExtRank {
			return candidates[i].ExtRank < candidates[j].ExtRank
		}
		return candidates[i].Updated.After(candidates[j].Updated)
	})

	if asOf == "latest" {
		return candidates[0], true
	}

	// Exact date match only; no prefix or range semantics
	for _, c := range candidates {
		if c.Date == asOf {
			return c, true
		}
	}

	return Candidate{}, false
}
