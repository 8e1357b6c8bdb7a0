package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitscout/scout-api/internal/api/handlers"
	"github.com/profitscout/scout-api/internal/artifacts"
	"github.com/profitscout/scout-api/internal/signals"
	"github.com/profitscout/scout-api/pkg/config"
	"github.com/profitscout/scout-api/pkg/logger"
	"github.com/profitscout/scout-api/pkg/storage"
)

// fakeStore backs the artifact routes in tests
type fakeStore struct {
	objects  []storage.Object
	content  map[string][]byte
	prefixes []string
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]storage.Object, error) {
	var matched []storage.Object
	for _, o := range f.objects {
		if strings.HasPrefix(o.Name, prefix) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

func (f *fakeStore) Read(_ context.Context, name string) ([]byte, error) {
	return f.content[name], nil
}

func (f *fakeStore) Prefixes(_ context.Context) ([]string, error) {
	return f.prefixes, nil
}

func (f *fakeStore) PublicURL(name string) string {
	return "https://storage.example.com/bucket/" + name
}

// fakeWarehouse backs the signal routes in tests
type fakeWarehouse struct {
	latest      time.Time
	hasLatest   bool
	tickers     []string
	expirations []signals.ExpirationCandidate
	rows        []signals.Row
}

func (f *fakeWarehouse) LatestRunDate(_ context.Context) (time.Time, bool, error) {
	return f.latest, f.hasLatest, nil
}

func (f *fakeWarehouse) DistinctTickers(_ context.Context, _ time.Time, _, _ string, _ int) ([]string, error) {
	return f.tickers, nil
}

func (f *fakeWarehouse) ListExpirations(_ context.Context, _ time.Time, _, _ string) ([]signals.ExpirationCandidate, error) {
	return f.expirations, nil
}

func (f *fakeWarehouse) ListRows(_ context.Context, _ signals.RowFilter) ([]signals.Row, error) {
	return f.rows, nil
}

func testRouter(store *fakeStore, repo *fakeWarehouse, limiter Limiter) http.Handler {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})

	artifactService := artifacts.NewService(store, log)
	signalService := signals.NewService(repo, log)

	return NewRouter(
		handlers.NewArtifactHandler(artifactService, log),
		handlers.NewDatasetHandler(artifactService, log),
		handlers.NewSignalHandler(signalService, log),
		limiter,
		log,
	)
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodOptions, "/v1/recommendations/AAPL")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestGetArtifact(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		objects: []storage.Object{
			{Name: "recommendations/AAPL_2024-05-01.md", Updated: now},
		},
		content: map[string][]byte{
			"recommendations/AAPL_2024-05-01.md": []byte("Buy."),
		},
	}
	router := testRouter(store, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/recommendations/aapl")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=120", rec.Header().Get("Cache-Control"))

	body := decodeBody(t, rec)
	assert.Equal(t, "recommendations", body["dataset"])
	assert.Equal(t, "AAPL", body["id"])
	assert.Equal(t, "2024-05-01T00:00:00Z", body["as_of"])
	assert.Equal(t, "Buy.", body["summary_md"])
}

func TestGetArtifactNotFound(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/recommendations/AAPL?as_of=2024-06-01")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Item not found.", body["error"])
	assert.Contains(t, body["hint"], "recommendations")
	assert.Contains(t, body["hint"], "AAPL")
	assert.Contains(t, body["hint"], "2024-06-01")
}

func TestListDatasetsFallback(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	body := decodeBody(t, rec)
	assert.Equal(t, "fallback", body["hint"])
	datasets := body["datasets"].([]interface{})
	assert.Contains(t, datasets, "options-signals")
	assert.Contains(t, datasets, "recommendations")
}

func TestListDatasets(t *testing.T) {
	store := &fakeStore{prefixes: []string{"technicals", "manifests", "recommendations"}}
	router := testRouter(store, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Nil(t, body["hint"])
	datasets := body["datasets"].([]interface{})
	assert.NotContains(t, datasets, "manifests")
	assert.Contains(t, datasets, "options-signals")
}

func TestListSignalTickers(t *testing.T) {
	repo := &fakeWarehouse{
		latest:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		hasLatest: true,
		tickers:   []string{"AAPL", "GOOG"},
	}
	router := testRouter(&fakeStore{}, repo, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/options-signals")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "options-signals", body["dataset"])
	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "AAPL", first["id"])
	assert.Equal(t, "/v1/options-signals/AAPL", first["href"])
}

func TestListSignalTickersInvalidOptionType(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/options-signals?option_type=STRADDLE")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopSignals(t *testing.T) {
	repo := &fakeWarehouse{
		latest:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		hasLatest: true,
		rows: []signals.Row{
			{Ticker: "MSFT", SetupQuality: "Medium"},
			{Ticker: "AAPL", SetupQuality: "High"},
		},
	}
	router := testRouter(&fakeStore{}, repo, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/options-signals/top")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "options-signals-top", body["dataset"])
	assert.Equal(t, "2024-05-01", body["as_of"])

	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "AAPL", first["ticker"], "High tier ranks first")
}

func TestTickerSignals(t *testing.T) {
	exp := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	repo := &fakeWarehouse{
		latest:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		hasLatest: true,
		expirations: []signals.ExpirationCandidate{
			{ExpirationDate: exp, DaysToExpiration: 33},
		},
		rows: []signals.Row{
			{Ticker: "AAPL", SetupQuality: "High", ExpirationDate: exp,
				RunDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), OptionType: "CALL"},
		},
	}
	router := testRouter(&fakeStore{}, repo, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/options-signals/aapl")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "options-signals-item", body["dataset"])
	assert.Equal(t, "AAPL", body["id"])
	assert.Equal(t, "2024-05-01", body["as_of"])
	assert.Equal(t, "2024-06-03", body["selected_expiration_date"])

	items := body["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestTickerSignalsNotFound(t *testing.T) {
	repo := &fakeWarehouse{
		latest:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		hasLatest: true,
	}
	router := testRouter(&fakeStore{}, repo, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/options-signals/ZZZZ")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["hint"], "ZZZZ")
}

func TestTickerSignalsInvalidDate(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{hasLatest: true}, nil)

	rec := doRequest(t, router, http.MethodGet, "/v1/options-signals/AAPL?as_of=05-01-2024")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	// A zero-rate limiter rejects everything
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, NewLocalLimiter(0, 0))

	rec := doRequest(t, router, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitAllows(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeWarehouse{}, NewLocalLimiter(100, 100))

	rec := doRequest(t, router, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
}
