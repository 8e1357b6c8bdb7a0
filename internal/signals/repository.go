package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// signalsTable is the warehouse table of pre-computed options signals,
// keyed by (run_date, ticker, option_type, expiration_date) upstream.
const signalsTable = "signals.options_signals"

// RowFilter describes the equality filters applied in the warehouse.
// RunDate is required; zero-valued fields are not filtered on.
type RowFilter struct {
	RunDate        time.Time
	Ticker         string
	OptionType     string // CALL or PUT; empty means both
	ExpirationDate time.Time
}

// Repository reads the options signals table. All access is read-only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new signals repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LatestRunDate returns the maximum run_date in the table.
// found is false when the table is empty.
func (r *Repository) LatestRunDate(ctx context.Context) (latest time.Time, found bool, err error) {
	query := fmt.Sprintf(`SELECT MAX(run_date) FROM %s`, signalsTable)

	var max *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query latest run date: %w", err)
	}
	if max == nil {
		return time.Time{}, false, nil
	}

	return *max, true, nil
}

// DistinctTickers lists distinct tickers for a run date, optionally narrowed
// by ticker prefix and option type, ordered alphabetically.
func (r *Repository) DistinctTickers(ctx context.Context, runDate time.Time, tickerPrefix, optionType string, limit int) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT ticker FROM %s WHERE run_date = $1`, signalsTable)
	args := []interface{}{runDate}

	if tickerPrefix != "" {
		args = append(args, tickerPrefix+"%")
		query += fmt.Sprintf(" AND ticker LIKE $%d", len(args))
	}
	if optionType != "" {
		args = append(args, optionType)
		query += fmt.Sprintf(" AND option_type = $%d", len(args))
	}

	query += " ORDER BY ticker"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}

	return tickers, nil
}

// ListExpirations returns the available contract expirations for a
// ticker/run date, optionally narrowed by option type.
func (r *Repository) ListExpirations(ctx context.Context, runDate time.Time, ticker, optionType string) ([]ExpirationCandidate, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT expiration_date, days_to_expiration FROM %s WHERE run_date = $1 AND ticker = $2`,
		signalsTable,
	)
	args := []interface{}{runDate, ticker}

	if optionType != "" {
		args = append(args, optionType)
		query += fmt.Sprintf(" AND option_type = $%d", len(args))
	}

	query += " ORDER BY days_to_expiration"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expirations: %w", err)
	}
	defer rows.Close()

	var candidates []ExpirationCandidate
	for rows.Next() {
		var c ExpirationCandidate
		if err := rows.Scan(&c.ExpirationDate, &c.DaysToExpiration); err != nil {
			return nil, fmt.Errorf("failed to scan expiration: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expirations: %w", err)
	}

	return candidates, nil
}

// ListRows returns all signal rows matching the filter, in warehouse order.
// Ranking happens in Go; this is a plain equality-filtered read.
func (r *Repository) ListRows(ctx context.Context, f RowFilter) ([]Row, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE run_date = $1`, signalsTable)
	args := []interface{}{f.RunDate}

	if f.Ticker != "" {
		args = append(args, f.Ticker)
		query += fmt.Sprintf(" AND ticker = $%d", len(args))
	}
	if f.OptionType != "" {
		args = append(args, f.OptionType)
		query += fmt.Sprintf(" AND option_type = $%d", len(args))
	}
	if !f.ExpirationDate.IsZero() {
		args = append(args, f.ExpirationDate)
		query += fmt.Sprintf(" AND expiration_date = $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signal rows: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		row := Row{Extra: make(map[string]interface{})}
		for i, field := range fields {
			assignColumn(&row, string(field.Name), values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w", err)
	}

	return result, nil
}

// assignColumn routes a warehouse column into the typed Row fields,
// leaving unrecognized columns in Extra.
func assignColumn(row *Row, name string, value interface{}) {
	switch name {
	case "run_date":
		row.RunDate = asTime(value)
	case "ticker":
		row.Ticker = asString(value)
	case "option_type":
		row.OptionType = asString(value)
	case "expiration_date":
		row.ExpirationDate = asTime(value)
	case "days_to_expiration":
		row.DaysToExpiration = asInt(value)
	case "setup_quality_signal":
		row.SetupQuality = asString(value)
	case "is_trend_aligned":
		row.TrendAligned = asBool(value)
	case "is_iv_favorable":
		row.IVFavorable = asBool(value)
	default:
		// Dates in the open metric set serialize as plain date strings
		if t, ok := value.(time.Time); ok {
			row.Extra[name] = t.Format(dateLayout)
			return
		}
		row.Extra[name] = value
	}
}

func asTime(v interface{}) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
