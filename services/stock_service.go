// File: /services/stock_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stocktalk-api/models"
)

// ErrStockUnavailable is returned when the market data provider cannot
// serve a ticker (unknown symbol, upstream failure).
var ErrStockUnavailable = errors.New("stock data unavailable")

const quoteCacheTTL = time.Minute

type cachedQuote struct {
	quote     quoteResponse
	expiresAt time.Time
}

// StockService fetches quotes and company profiles from the market data
// provider and caches quotes briefly to stay inside its rate limits.
type StockService struct {
	baseURL    string
	httpClient *http.Client

	quotes map[string]cachedQuote
	mutex  sync.RWMutex
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	Open          float64 `json:"o"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	PreviousClose float64 `json:"pc"`
}

type profileResponse struct {
	Name      string  `json:"name"`
	MarketCap float64 `json:"marketCapitalization"`
}

type searchResponse struct {
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
	} `json:"result"`
}

type metricsResponse struct {
	Metric struct {
		WeekHigh52    float64 `json:"52WeekHigh"`
		WeekLow52     float64 `json:"52WeekLow"`
		AverageVolume float64 `json:"10DayAverageTradingVolume"`
		PERatio       float64 `json:"peBasicExclExtraTTM"`
	} `json:"metric"`
}

func NewStockService(baseURL string) *StockService {
	service := &StockService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		quotes:     make(map[string]cachedQuote),
	}

	// Start cleanup goroutine
	go service.cleanupExpiredQuotes()

	return service
}

// SetHTTPClient overrides the HTTP client, used by tests.
func (ss *StockService) SetHTTPClient(client *http.Client) {
	ss.httpClient = client
}

func (ss *StockService) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s?%s", ss.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("stock provider request failed")
		return ErrStockUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("stock provider returned non-OK status")
		return ErrStockUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrStockUnavailable
	}
	return nil
}

func (ss *StockService) quote(ctx context.Context, ticker string) (quoteResponse, error) {
	ss.mutex.RLock()
	cached, exists := ss.quotes[ticker]
	ss.mutex.RUnlock()

	if exists && time.Now().Before(cached.expiresAt) {
		return cached.quote, nil
	}

	var quote quoteResponse
	query := url.Values{"symbol": {ticker}}
	if err := ss.get(ctx, "/quote", query, &quote); err != nil {
		return quoteResponse{}, err
	}

	ss.mutex.Lock()
	ss.quotes[ticker] = cachedQuote{quote: quote, expiresAt: time.Now().Add(quoteCacheTTL)}
	ss.mutex.Unlock()

	return quote, nil
}

// priceOf prefers the live price and falls back to the previous close.
func priceOf(q quoteResponse) float64 {
	if q.Current != 0 {
		return q.Current
	}
	if q.PreviousClose != 0 {
		return q.PreviousClose
	}
	return 0
}

// Search looks up a ticker symbol and returns its best match with a
// current price attached.
func (ss *StockService) Search(ctx context.Context, ticker string) (*models.Stock, error) {
	var result searchResponse
	query := url.Values{"q": {ticker}}
	if err := ss.get(ctx, "/search", query, &result); err != nil {
		return nil, err
	}
	if len(result.Result) == 0 {
		return nil, ErrStockUnavailable
	}

	match := result.Result[0]
	quote, err := ss.quote(ctx, match.Symbol)
	if err != nil {
		return nil, err
	}

	return &models.Stock{
		Symbol: match.Symbol,
		Name:   match.Description,
		Price:  priceOf(quote),
	}, nil
}

// Info returns the detailed view for a single ticker.
func (ss *StockService) Info(ctx context.Context, ticker string) (map[string]interface{}, error) {
	quote, err := ss.quote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var profile profileResponse
	if err := ss.get(ctx, "/stock/profile2", url.Values{"symbol": {ticker}}, &profile); err != nil {
		return nil, err
	}

	var metrics metricsResponse
	if err := ss.get(ctx, "/stock/metric", url.Values{"symbol": {ticker}, "metric": {"all"}}, &metrics); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"symbol":         ticker,
		"description":    profile.Name,
		"current_price":  quote.Current,
		"open_price":     quote.Open,
		"high":           quote.High,
		"low":            quote.Low,
		"price":          priceOf(quote),
		"market_cap":     profile.MarketCap,
		"average_volume": metrics.Metric.AverageVolume,
		"52_week_high":   metrics.Metric.WeekHigh52,
		"52_week_low":    metrics.Metric.WeekLow52,
		"pe_ratio":       metrics.Metric.PERatio,
	}, nil
}

// Prices returns the current price for each requested ticker. Tickers
// the provider cannot serve come back as zero instead of failing the
// whole batch.
func (ss *StockService) Prices(ctx context.Context, tickers []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		quote, err := ss.quote(ctx, ticker)
		if err != nil {
			prices[ticker] = 0
			continue
		}
		prices[ticker] = priceOf(quote)
	}
	return prices, nil
}

// Cleanup expired cached quotes
func (ss *StockService) cleanupExpiredQuotes() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ss.mutex.Lock()
		now := time.Now()
		for symbol, cached := range ss.quotes {
			if now.After(cached.expiresAt) {
				delete(ss.quotes, symbol)
			}
		}
		ss.mutex.Unlock()
	}
}
