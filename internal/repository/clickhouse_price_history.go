package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"MarketEngine/internal/domain/models"
	pkgch "MarketEngine/pkg/clickhouse"
	applogger "MarketEngine/pkg/logger"
)

const ClickHouseProviderName = "clickhouse"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// DailyPricesDDL creates the table CHPriceHistory reads from.
func DailyPricesDDL(table string) string {
	return fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            day    Date,
            symbol LowCardinality(String),
            open   Decimal(18, 4),
            high   Decimal(18, 4),
            low    Decimal(18, 4),
            close  Decimal(18, 4),
            volume UInt64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, day)
    `, table)
}

// CHPriceHistory implements UpstreamClient over a ClickHouse table of daily bars.
type CHPriceHistory struct {
	db       *sql.DB
	table    string
	lookback int
	l        *applogger.Logger
}

func NewCHPriceHistory(ch *pkgch.Client, table string, lookback int, l *applogger.Logger) (*CHPriceHistory, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}
	if lookback < 1 {
		lookback = 5
	}
	return &CHPriceHistory{db: ch.DB(), table: table, lookback: lookback, l: l}, nil
}

func (s *CHPriceHistory) latestQuery() string {
	const qtpl = `
        SELECT day, toString(open), toString(high), toString(low), toString(close), volume
        FROM %s FINAL
        WHERE symbol = ?
        ORDER BY day DESC
        LIMIT ?
    `
	return fmt.Sprintf(qtpl, s.table)
}

// FetchDailyHistory returns the latest lookback bars, oldest first.
func (s *CHPriceHistory) FetchDailyHistory(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, s.latestQuery(), symbol, s.lookback)
	if err != nil {
		s.l.Error("clickhouse daily_prices query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query daily prices: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PriceBar, 0, s.lookback)
	for rows.Next() {
		var b models.PriceBar
		var volume uint64
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &volume); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		b.Volume = int64(volume)
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	reverseBars(tmp)

	s.l.Debug("clickhouse daily_prices ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(tmp)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return tmp, nil
}

func reverseBars(b []models.PriceBar) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
