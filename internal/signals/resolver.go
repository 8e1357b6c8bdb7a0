package signals

import "time"

// Preferred contract horizon in days to expiration
const (
	windowMinDTE = 30
	windowMaxDTE = 45
	idealDTE     = 37
)

// ExpirationCandidate is one available contract expiration for a ticker/run date
type ExpirationCandidate struct {
	ExpirationDate   time.Time
	DaysToExpiration int
}

// ResolveExpiration chooses a target expiration when the caller supplied none.
//
// Stage 1 prefers the shortest expiration inside the 30-45 day window.
// Stage 2 falls back to the expiration nearest 37 days out, across all
// candidates; an exact distance tie resolves to the smaller day count.
// Returns false only when no candidate exists at all.
func ResolveExpiration(candidates []ExpirationCandidate) (time.Time, bool) {
	if exp, ok := shortestInWindow(candidates); ok {
		return exp, true
	}
	return nearestToIdeal(candidates)
}

// shortestInWindow picks the minimum DTE within [windowMinDTE, windowMaxDTE]
func shortestInWindow(candidates []ExpirationCandidate) (time.Time, bool) {
	var best ExpirationCandidate
	found := false
	for _, c := range candidates {
		if c.DaysToExpiration < windowMinDTE || c.DaysToExpiration > windowMaxDTE {
			continue
		}
		if !found || c.DaysToExpiration < best.DaysToExpiration {
			best = c
			found = true
		}
	}
	return best.ExpirationDate, found
}

// nearestToIdeal picks the DTE with the smallest absolute distance from
// idealDTE; ties go to the smaller day count.
func nearestToIdeal(candidates []ExpirationCandidate) (time.Time, bool) {
	var best ExpirationCandidate
	found := false
	for _, c := range candidates {
		if !found {
			best = c
			found = true
			continue
		}
		d, bd := distance(c.DaysToExpiration), distance(best.DaysToExpiration)
		if d < bd || (d == bd && c.DaysToExpiration < best.DaysToExpiration) {
			best = c
		}
	}
	return best.ExpirationDate, found
}

func distance(dte int) int {
	if dte < idealDTE {
		return idealDTE - dte
	}
	return dte - idealDTE
}
