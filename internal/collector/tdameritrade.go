package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockCompare/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultTDAmeritradeURL is the market data root of the TD Ameritrade API.
const DefaultTDAmeritradeURL = "https://api.tdameritrade.com/v1/marketdata"

var errMissingCandles = errors.New("response has no candles field")

// TDAmeritradeFetcher implements Fetcher using the TD Ameritrade price history API.
type TDAmeritradeFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewTDAmeritradeFetcher creates a fetcher with optional proxy support.
// requestsPerMinute <= 0 disables rate limiting.
func NewTDAmeritradeFetcher(baseURL, apiKey, proxyURL string, requestsPerMinute int) *TDAmeritradeFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultTDAmeritradeURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60)
	}
	return &TDAmeritradeFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "tdameritrade",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				// a ticker without data says nothing about the provider's health
				return err == nil || errors.Is(err, ErrNoCandles)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
	}
}

// EnableCache makes responses reusable for the rest of the day from dir.
func (f *TDAmeritradeFetcher) EnableCache(dir string) {
	f.Client.Transport = newDailyCache(f.Client.Transport, dir)
}

func (f *TDAmeritradeFetcher) Name() string { return "tdameritrade" }

// tdaCandle is the JSON shape of one candle in a pricehistory response.
type tdaCandle struct {
	Datetime int64           `json:"datetime"`
	Open     decimal.Decimal `json:"open"`
	Close    decimal.Decimal `json:"close"`
}

type tdaPriceHistory struct {
	Candles *[]tdaCandle `json:"candles"`
	Symbol  string       `json:"symbol"`
	Empty   bool         `json:"empty"`
	Error   string       `json:"error"`
}

func (f *TDAmeritradeFetcher) endpoint(ticker string, start, end time.Time) string {
	q := url.Values{}
	q.Set("apikey", f.APIKey)
	q.Set("periodType", "year")
	q.Set("frequencyType", "daily")
	q.Set("frequency", "1")
	q.Set("startDate", strconv.FormatInt(start.UnixMilli(), 10))
	// candles are stamped after midnight, so cover the whole end day
	q.Set("endDate", strconv.FormatInt(end.AddDate(0, 0, 1).UnixMilli(), 10))
	q.Set("needExtendedHoursData", "true")
	return fmt.Sprintf("%s/%s/pricehistory?%s", f.BaseURL, url.PathEscape(ticker), q.Encode())
}

func (f *TDAmeritradeFetcher) FetchDailyCandles(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.fetchCandles(ctx, ticker, start, end)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Candle), nil
}

func (f *TDAmeritradeFetcher) fetchCandles(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(ticker, start, end), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch candles: status %d, body: %s", resp.StatusCode, string(body))
	}

	var history tdaPriceHistory
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	if history.Error != "" {
		return nil, fmt.Errorf("tdameritrade api error: %s", history.Error)
	}
	if history.Candles == nil {
		return nil, errMissingCandles
	}
	if len(*history.Candles) == 0 {
		return nil, ErrNoCandles
	}

	candles := make([]model.Candle, len(*history.Candles))
	for i, c := range *history.Candles {
		candles[i] = model.Candle{
			Time:  time.UnixMilli(c.Datetime),
			Open:  c.Open,
			Close: c.Close,
		}
	}
	// Ensure chronological order
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	log.Debug().Str("ticker", ticker).Int("candles", len(candles)).Msg("fetched price history")
	return candles, nil
}
