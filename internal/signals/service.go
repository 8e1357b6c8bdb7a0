package signals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/profitscout/scout-api/pkg/logger"
)

// ErrNotFound indicates no signal rows exist for the requested keys
var ErrNotFound = errors.New("no signals found")

// Warehouse is the read-only tabular surface consumed by the signals service
type Warehouse interface {
	LatestRunDate(ctx context.Context) (time.Time, bool, error)
	DistinctTickers(ctx context.Context, runDate time.Time, tickerPrefix, optionType string, limit int) ([]string, error)
	ListExpirations(ctx context.Context, runDate time.Time, ticker, optionType string) ([]ExpirationCandidate, error)
	ListRows(ctx context.Context, f RowFilter) ([]Row, error)
}

// TickerRef is one entry in the distinct-ticker listing
type TickerRef struct {
	ID   string `json:"id"`
	Href string `json:"href"`
}

// TickerResult is the resolved signal set for one ticker
type TickerResult struct {
	Ticker             string
	RunDate            string
	SelectedExpiration string
	Rows               []Row
}

// Service resolves and ranks options signals from the warehouse
type Service struct {
	repo Warehouse
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a new signals service
func NewService(repo Warehouse, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// EffectiveRunDate resolves "latest" (or empty) to the most recent run date
// in the warehouse. An empty table falls back to yesterday so the service
// stays usable before any data lands.
func (s *Service) EffectiveRunDate(ctx context.Context, asOf string) (time.Time, error) {
	if asOf != "" && asOf != "latest" {
		date, err := time.Parse(dateLayout, asOf)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid as_of date %q: %w", asOf, err)
		}
		return date, nil
	}

	latest, found, err := s.repo.LatestRunDate(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		yesterday := s.now().AddDate(0, 0, -1)
		s.log.Warn("Signals table is empty, falling back to yesterday as run date")
		return yesterday, nil
	}

	return latest, nil
}

// Tickers lists distinct tickers for a run date as listing entries
func (s *Service) Tickers(ctx context.Context, runDate time.Time, tickerPrefix, optionType string, limit int) ([]TickerRef, error) {
	tickers, err := s.repo.DistinctTickers(ctx, runDate, strings.ToUpper(tickerPrefix), optionType, limit)
	if err != nil {
		return nil, err
	}

	items := make([]TickerRef, len(tickers))
	for i, t := range tickers {
		items[i] = TickerRef{
			ID:   t,
			Href: fmt.Sprintf("/v1/options-signals/%s", t),
		}
	}

	return items, nil
}

// Top returns the best-ranked signals across all tickers for a run date
func (s *Service) Top(ctx context.Context, runDate time.Time, optionType string, limit int) ([]Row, error) {
	rows, err := s.repo.ListRows(ctx, RowFilter{
		RunDate:    runDate,
		OptionType: optionType,
	})
	if err != nil {
		return nil, err
	}

	return Rank(rows, limit), nil
}

// ForTicker resolves the ranked signal set for one ticker. When no expiration
// is supplied the optimal one is chosen by the two-stage policy. Returns
// ErrNotFound when no rows exist for the resolved keys.
func (s *Service) ForTicker(ctx context.Context, runDate time.Time, ticker, expiration, optionType string, topN int) (*TickerResult, error) {
	ticker = strings.ToUpper(ticker)

	// ANY means no option type constraint in the warehouse
	typeFilter := optionType
	if typeFilter == OptionAny {
		typeFilter = ""
	}

	var expirationDate time.Time
	if expiration != "" {
		parsed, err := time.Parse(dateLayout, expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration_date %q: %w", expiration, err)
		}
		expirationDate = parsed
	} else {
		candidates, err := s.repo.ListExpirations(ctx, runDate, ticker, typeFilter)
		if err != nil {
			return nil, err
		}

		resolved, ok := ResolveExpiration(candidates)
		if !ok {
			return nil, ErrNotFound
		}
		expirationDate = resolved

		s.log.WithFields(map[string]interface{}{
			"ticker":     ticker,
			"expiration": expirationDate.Format(dateLayout),
		}).Debug("Resolved target expiration")
	}

	rows, err := s.repo.ListRows(ctx, RowFilter{
		RunDate:        runDate,
		Ticker:         ticker,
		OptionType:     typeFilter,
		ExpirationDate: expirationDate,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return &TickerResult{
		Ticker:             ticker,
		RunDate:            runDate.Format(dateLayout),
		SelectedExpiration: expirationDate.Format(dateLayout),
		Rows:               Rank(rows, topN),
	}, nil
}
