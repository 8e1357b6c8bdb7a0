package signals

import "sort"

// Rank orders rows by the three-level qualitative tie-break, all descending:
// setup quality tier, trend alignment, IV favorability. Rows equal on all
// three keys keep their warehouse-returned order. The result is truncated to
// limit when limit is positive.
func Rank(rows []Row, limit int) []Row {
	ranked := make([]Row, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ti, tj := ranked[i].Tier(), ranked[j].Tier(); ti != tj {
			return ti > tj
		}
		if ranked[i].TrendAligned != ranked[j].TrendAligned {
			return ranked[i].TrendAligned
		}
		if ranked[i].IVFavorable != ranked[j].IVFavorable {
			return ranked[i].IVFavorable
		}
		return false
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
