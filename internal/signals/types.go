package signals

import (
	"encoding/json"
	"strings"
	"time"
)

// Option types accepted by the API
const (
	OptionCall = "CALL"
	OptionPut  = "PUT"
	OptionAny  = "ANY"
)

const dateLayout = "2006-01-02"

// Row is one pre-computed options signal from the warehouse.
//
// The ranking keys are typed; everything else the warehouse returns for the
// row rides along in Extra and is flattened back into the JSON response, so
// new metric columns show up without code changes.
type Row struct {
	RunDate          time.Time
	Ticker           string
	OptionType       string
	ExpirationDate   time.Time
	DaysToExpiration int
	SetupQuality     string
	TrendAligned     bool
	IVFavorable      bool
	Extra            map[string]interface{}
}

// MarshalJSON flattens the typed fields and Extra into one JSON object
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extra)+8)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["run_date"] = r.RunDate.Format(dateLayout)
	out["ticker"] = r.Ticker
	out["option_type"] = r.OptionType
	out["expiration_date"] = r.ExpirationDate.Format(dateLayout)
	out["days_to_expiration"] = r.DaysToExpiration
	out["setup_quality_signal"] = r.SetupQuality
	out["is_trend_aligned"] = r.TrendAligned
	out["is_iv_favorable"] = r.IVFavorable
	return json.Marshal(out)
}

// Tier maps the setup quality signal to its ordinal rank.
// Unknown values rank below Low.
func (r Row) Tier() int {
	switch r.SetupQuality {
	case "High":
		return 3
	case "Medium":
		return 2
	case "Low":
		return 1
	default:
		return 0
	}
}

// ValidOptionType reports whether v is an accepted option type filter.
// allowAny additionally permits the ANY wildcard.
func ValidOptionType(v string, allowAny bool) bool {
	switch v {
	case OptionCall, OptionPut:
		return true
	case OptionAny:
		return allowAny
	}
	return false
}

// asBool normalizes a boolean-like warehouse value
func asBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "t" || s == "yes" || s == "1"
	case int64:
		return t != 0
	case int32:
		return t != 0
	case float64:
		return t != 0
	}
	return false
}

// asInt normalizes an integer-like warehouse value
func asInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int16:
		return int(t)
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

// asString normalizes a text-like warehouse value
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
