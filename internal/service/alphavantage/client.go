package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"MarketEngine/internal/domain/models"
	domrepo "MarketEngine/internal/domain/repository"
	applogger "MarketEngine/pkg/logger"
	"MarketEngine/pkg/util"

	"github.com/shopspring/decimal"
	"resty.dev/v3"
)

const (
	ProviderName   = "alphavantage"
	DefaultBaseURL = "https://www.alphavantage.co/query"
)

// dailyResponse is the TIME_SERIES_DAILY payload. Error, Note and Information
// are set instead of the series when the call is rejected.
type dailyResponse struct {
	Series      map[string]dailyBar `json:"Time Series (Daily)"`
	Error       string              `json:"Error Message"`
	Note        string              `json:"Note"`
	Information string              `json:"Information"`
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// Client fetches daily bars from Alpha Vantage.
type Client struct {
	apiKey string
	client *resty.Client
	log    *applogger.Logger
}

func New(apiKey, baseURL string, timeout time.Duration, log *applogger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Client{apiKey: apiKey, client: client, log: log}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.client.Close()
}

// FetchDailyHistory returns the compact daily series, oldest first. An
// "Error Message" reply (unknown symbol) maps to ErrNoData; throttling notes
// are returned as errors so the caller retries.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	var result dailyResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":     c.apiKey,
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"outputsize": "compact",
		}).
		SetResult(&result).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("alphavantage request for %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("alphavantage API returned status %d", resp.StatusCode())
	}

	switch {
	case result.Error != "":
		c.log.Debug("alphavantage rejected symbol",
			applogger.String("symbol", symbol),
			applogger.String("reason", result.Error),
		)
		return nil, domrepo.ErrNoData
	case result.Note != "":
		return nil, fmt.Errorf("alphavantage throttled: %s", result.Note)
	case result.Information != "":
		return nil, fmt.Errorf("alphavantage: %s", result.Information)
	}

	return parseSeries(result.Series)
}

func parseSeries(series map[string]dailyBar) ([]models.PriceBar, error) {
	days := make([]string, 0, len(series))
	for day := range series {
		days = append(days, day)
	}
	sort.Strings(days)

	bars := make([]models.PriceBar, 0, len(days))
	for _, day := range days {
		raw := series[day]
		t, ok := util.ParseTime(day)
		if !ok {
			return nil, fmt.Errorf("alphavantage: bad date %q", day)
		}
		closePrice, err := decimal.NewFromString(raw.Close)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: close for %s: %w", day, err)
		}
		bar := models.PriceBar{Time: t, Close: closePrice}
		bar.Open, _ = decimal.NewFromString(raw.Open)
		bar.High, _ = decimal.NewFromString(raw.High)
		bar.Low, _ = decimal.NewFromString(raw.Low)
		bar.Volume, _ = strconv.ParseInt(raw.Volume, 10, 64)
		bars = append(bars, bar)
	}
	return bars, nil
}
