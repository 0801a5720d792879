package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, quotes map[string]quoteResponse) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			quote, ok := quotes[r.URL.Query().Get("symbol")]
			if !ok {
				http.Error(w, "unknown symbol", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(quote)
		case "/search":
			q := r.URL.Query().Get("q")
			if _, ok := quotes[q]; !ok {
				json.NewEncoder(w).Encode(searchResponse{})
				return
			}
			resp := searchResponse{}
			resp.Result = append(resp.Result, struct {
				Symbol      string `json:"symbol"`
				Description string `json:"description"`
			}{Symbol: q, Description: q + " Corp"})
			json.NewEncoder(w).Encode(resp)
		case "/stock/profile2":
			json.NewEncoder(w).Encode(profileResponse{Name: "Test Corp", MarketCap: 1000})
		case "/stock/metric":
			var resp metricsResponse
			resp.Metric.WeekHigh52 = 200
			resp.Metric.WeekLow52 = 100
			resp.Metric.PERatio = 20
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearchReturnsPricedMatch(t *testing.T) {
	server := newProvider(t, map[string]quoteResponse{
		"AAPL": {Current: 190.5, PreviousClose: 189},
	})
	service := NewStockService(server.URL)

	stock, err := service.Search(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", stock.Symbol)
	assert.Equal(t, "AAPL Corp", stock.Name)
	assert.Equal(t, 190.5, stock.Price)
}

func TestSearchUnknownSymbol(t *testing.T) {
	server := newProvider(t, nil)
	service := NewStockService(server.URL)

	_, err := service.Search(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrStockUnavailable)
}

func TestPriceFallsBackToPreviousClose(t *testing.T) {
	server := newProvider(t, map[string]quoteResponse{
		"HALT": {Current: 0, PreviousClose: 42.5},
		"DEAD": {Current: 0, PreviousClose: 0},
	})
	service := NewStockService(server.URL)

	prices, err := service.Prices(context.Background(), []string{"HALT", "DEAD", "GONE"})
	require.NoError(t, err)
	assert.Equal(t, 42.5, prices["HALT"])
	assert.Equal(t, 0.0, prices["DEAD"])
	assert.Equal(t, 0.0, prices["GONE"]) // provider error degrades to zero
}

func TestInfoAggregatesProviderCalls(t *testing.T) {
	server := newProvider(t, map[string]quoteResponse{
		"AAPL": {Current: 190.5, Open: 188, High: 192, Low: 187, PreviousClose: 189},
	})
	service := NewStockService(server.URL)

	info, err := service.Info(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 190.5, info["current_price"])
	assert.Equal(t, 188.0, info["open_price"])
	assert.Equal(t, "Test Corp", info["description"])
	assert.Equal(t, 200.0, info["52_week_high"])
	assert.Equal(t, 20.0, info["pe_ratio"])
	assert.Equal(t, 190.5, info["price"])
}

func TestQuoteCaching(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(quoteResponse{Current: 10})
	}))
	t.Cleanup(server.Close)

	service := NewStockService(server.URL)

	_, err := service.quote(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = service.quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestProviderDownIsUnavailable(t *testing.T) {
	service := NewStockService("http://127.0.0.1:0")

	_, err := service.Search(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrStockUnavailable)

	_, err = service.Info(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrStockUnavailable)
}
