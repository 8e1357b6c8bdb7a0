package artifacts

import "regexp"

// dateToken matches an embedded YYYY-MM-DD token in an object name.
// The pattern is intentionally permissive: calendar validity is not checked,
// matching how artifact producers have always named their uploads.
var dateToken = regexp.MustCompile(`[0-9]{4}-[0-9]{2}-[0-9]{2}`)

// ExtractDate returns the first YYYY-MM-DD token in name, if any
func ExtractDate(name string) (string, bool) {
	token := dateToken.FindString(name)
	if token == "" {
		return "", false
	}
	return token, true
}
