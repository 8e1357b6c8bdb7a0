package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/profitscout/scout-api/internal/signals"
	"github.com/profitscout/scout-api/pkg/logger"
)

// SignalHandler serves options-trading signals from the warehouse
type SignalHandler struct {
	service *signals.Service
	logger  *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(service *signals.Service, log *logger.Logger) *SignalHandler {
	return &SignalHandler{service: service, logger: log}
}

// ListTickers lists distinct tickers carrying signals for a run date
// GET /v1/options-signals?run_date=&ticker=&option_type=CALL|PUT&limit=
func (h *SignalHandler) ListTickers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheControl(w, 300)

	optionType := r.URL.Query().Get("option_type")
	if optionType != "" && !signals.ValidOptionType(optionType, false) {
		respondError(w, http.StatusBadRequest, "option_type must be CALL or PUT")
		return
	}

	runDate, err := h.service.EffectiveRunDate(ctx, r.URL.Query().Get("run_date"))
	if err != nil {
		h.respondRunDateError(w, err)
		return
	}

	limit := queryInt(r, "limit", 100)

	items, err := h.service.Tickers(ctx, runDate, r.URL.Query().Get("ticker"), optionType, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list signal tickers")
		respondError(w, http.StatusInternalServerError, "Failed to query distinct tickers")
		return
	}

	if items == nil {
		items = []signals.TickerRef{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dataset": "options-signals",
		"items":   items,
	})
}

// Top returns the best-ranked signals across all tickers
// GET /v1/options-signals/top?as_of=&option_type=CALL|PUT&limit=
func (h *SignalHandler) Top(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheControl(w, 300)

	optionType := r.URL.Query().Get("option_type")
	if optionType != "" && !signals.ValidOptionType(optionType, false) {
		respondError(w, http.StatusBadRequest, "option_type must be CALL or PUT")
		return
	}

	runDate, err := h.service.EffectiveRunDate(ctx, r.URL.Query().Get("as_of"))
	if err != nil {
		h.respondRunDateError(w, err)
		return
	}

	limit := queryInt(r, "limit", 10)

	rows, err := h.service.Top(ctx, runDate, optionType, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query top signals")
		respondError(w, http.StatusInternalServerError, "Failed to query top signals")
		return
	}

	if rows == nil {
		rows = []signals.Row{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dataset": "options-signals-top",
		"as_of":   runDate.Format("2006-01-02"),
		"items":   rows,
	})
}

// ForTicker returns the ranked signal set for one ticker
// GET /v1/options-signals/{ticker}?as_of=&expiration_date=&option_type=CALL|PUT|ANY&top_n=
func (h *SignalHandler) ForTicker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	cacheControl(w, 120)

	optionType := r.URL.Query().Get("option_type")
	if optionType == "" {
		optionType = signals.OptionAny
	}
	if !signals.ValidOptionType(optionType, true) {
		respondError(w, http.StatusBadRequest, "option_type must be CALL, PUT or ANY")
		return
	}

	runDate, err := h.service.EffectiveRunDate(ctx, r.URL.Query().Get("as_of"))
	if err != nil {
		h.respondRunDateError(w, err)
		return
	}

	topN := queryInt(r, "top_n", 3)
	expiration := r.URL.Query().Get("expiration_date")

	result, err := h.service.ForTicker(ctx, runDate, ticker, expiration, optionType, topN)
	if err != nil {
		switch {
		case errors.Is(err, signals.ErrNotFound):
			respondNotFound(w, "No options signals found.",
				fmt.Sprintf("No options signals for ticker %s on %s.",
					strings.ToUpper(ticker), runDate.Format("2006-01-02")))
		case isBadInput(err):
			respondError(w, http.StatusBadRequest, "Invalid expiration_date format (expected YYYY-MM-DD)")
		default:
			h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to query ticker signals")
			respondError(w, http.StatusInternalServerError, "Failed to query ticker signals")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"dataset":                  "options-signals-item",
		"id":                       result.Ticker,
		"as_of":                    result.RunDate,
		"selected_expiration_date": result.SelectedExpiration,
		"items":                    result.Rows,
	})
}

// respondRunDateError distinguishes a malformed date parameter from a
// warehouse failure.
func (h *SignalHandler) respondRunDateError(w http.ResponseWriter, err error) {
	if isBadInput(err) {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD or latest)")
		return
	}

	h.logger.WithError(err).Error("Failed to resolve run date")
	respondError(w, http.StatusInternalServerError, "Could not fetch latest run date")
}

// isBadInput reports whether err stems from unparseable caller input
func isBadInput(err error) bool {
	var parseErr *time.ParseError
	return errors.As(err, &parseErr)
}

// queryInt reads a positive integer query parameter with a default
func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}
