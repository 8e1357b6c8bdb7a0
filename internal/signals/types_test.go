package signals

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowTier(t *testing.T) {
	tests := []struct {
		quality string
		want    int
	}{
		{"High", 3},
		{"Medium", 2},
		{"Low", 1},
		{"", 0},
		{"Unknown", 0},
		{"high", 0}, // tier values are case-sensitive upstream
	}

	for _, tt := range tests {
		row := Row{SetupQuality: tt.quality}
		if got := row.Tier(); got != tt.want {
			t.Errorf("Tier(%q) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestRowMarshalJSON(t *testing.T) {
	row := Row{
		RunDate:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Ticker:           "AAPL",
		OptionType:       OptionCall,
		ExpirationDate:   time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		DaysToExpiration: 37,
		SetupQuality:     "High",
		TrendAligned:     true,
		IVFavorable:      false,
		Extra: map[string]interface{}{
			"implied_volatility": 0.42,
			"strike":             190.0,
		},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "2024-05-01", out["run_date"])
	assert.Equal(t, "AAPL", out["ticker"])
	assert.Equal(t, "CALL", out["option_type"])
	assert.Equal(t, "2024-06-07", out["expiration_date"])
	assert.Equal(t, float64(37), out["days_to_expiration"])
	assert.Equal(t, "High", out["setup_quality_signal"])
	assert.Equal(t, true, out["is_trend_aligned"])
	assert.Equal(t, false, out["is_iv_favorable"])

	// Open metric set is flattened into the same object
	assert.Equal(t, 0.42, out["implied_volatility"])
	assert.Equal(t, 190.0, out["strike"])
}

func TestValidOptionType(t *testing.T) {
	assert.True(t, ValidOptionType("CALL", false))
	assert.True(t, ValidOptionType("PUT", false))
	assert.False(t, ValidOptionType("ANY", false))
	assert.True(t, ValidOptionType("ANY", true))
	assert.False(t, ValidOptionType("call", true))
	assert.False(t, ValidOptionType("STRADDLE", true))
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		in   interface{}
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"1", true},
		{"false", false},
		{"no", false},
		{int64(1), true},
		{int64(0), false},
		{float64(1), true},
		{nil, false},
	}

	for _, tt := range tests {
		if got := asBool(tt.in); got != tt.want {
			t.Errorf("asBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAsInt(t *testing.T) {
	assert.Equal(t, 37, asInt(int64(37)))
	assert.Equal(t, 37, asInt(int32(37)))
	assert.Equal(t, 37, asInt(int16(37)))
	assert.Equal(t, 37, asInt(float64(37)))
	assert.Equal(t, 0, asInt("37"))
	assert.Equal(t, 0, asInt(nil))
}
