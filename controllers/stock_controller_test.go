package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktalk-api/services"
	"stocktalk-api/storage/memory"
)

// fakeStockProvider serves quote, profile, metric and search lookups for
// a single known symbol.
func fakeStockProvider(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		switch r.URL.Path {
		case "/quote":
			if symbol != "AAPL" {
				http.Error(w, "unknown symbol", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]float64{"c": 190.5, "o": 188, "h": 192, "l": 187, "pc": 189})
		case "/search":
			if r.URL.Query().Get("q") != "AAPL" {
				json.NewEncoder(w).Encode(map[string]interface{}{"result": []interface{}{}})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"result": []map[string]string{{"symbol": "AAPL", "description": "Apple Inc"}},
			})
		case "/stock/profile2":
			json.NewEncoder(w).Encode(map[string]interface{}{"name": "Apple Inc", "marketCapitalization": 2900000.0})
		case "/stock/metric":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"metric": map[string]float64{
					"52WeekHigh":                199.6,
					"52WeekLow":                 124.2,
					"10DayAverageTradingVolume": 58.3,
					"peBasicExclExtraTTM":       31.2,
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newStockTestRouter(t *testing.T) (*gin.Engine, *httptest.Server) {
	t.Helper()

	provider := fakeStockProvider(t)
	t.Cleanup(provider.Close)

	service := services.NewStockService(provider.URL)
	return newTestRouter(memory.New(), service), provider
}

func TestSearchStocks(t *testing.T) {
	r, _ := newStockTestRouter(t)
	token := createTestUser(t, r, "u1", "alice")

	w := doRequest(t, r, http.MethodGet, "/search/stocks?ticker=aapl", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stock map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, "AAPL", stock["symbol"])
	assert.Equal(t, "Apple Inc", stock["name"])
	assert.Equal(t, 190.5, stock["price"])

	w = doRequest(t, r, http.MethodGet, "/search/stocks?ticker=ZZZZ", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodGet, "/search/stocks", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStockInfo(t *testing.T) {
	r, _ := newStockTestRouter(t)
	token := createTestUser(t, r, "u1", "alice")

	w := doRequest(t, r, http.MethodGet, "/stock/info/AAPL", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 190.5, info["current_price"])
	assert.Equal(t, 188.0, info["open_price"])
	assert.Equal(t, 199.6, info["52_week_high"])
	assert.Equal(t, 31.2, info["pe_ratio"])
	assert.Equal(t, "Apple Inc", info["description"])

	w = doRequest(t, r, http.MethodGet, "/stock/info/ZZZZ", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStockPrices(t *testing.T) {
	r, _ := newStockTestRouter(t)
	token := createTestUser(t, r, "u1", "alice")

	w := doRequest(t, r, http.MethodGet, "/stock/prices?tickers=AAPL,ZZZZ", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var prices map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prices))
	assert.Equal(t, 190.5, prices["AAPL"])
	assert.Equal(t, 0.0, prices["ZZZZ"])

	w = doRequest(t, r, http.MethodGet, "/stock/prices", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockListEndpoints(t *testing.T) {
	r := newTestRouter(memory.New(), nil)
	token := createTestUser(t, r, "u1", "alice")

	w := doRequest(t, r, http.MethodPost, "/stock/stockLists/create", token, gin.H{
		"name":    "Tech",
		"tickers": []string{"aapl", "GOOG"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, []interface{}{"AAPL", "GOOG"}, created["tickers"])

	w = doRequest(t, r, http.MethodPost, "/stock/stockLists/create", token, gin.H{
		"name":    "Tech",
		"tickers": []string{"MSFT"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, r, http.MethodPost, "/stock/stockLists/create", token, gin.H{
		"name":    "Bad",
		"tickers": []string{"not a ticker"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPut, "/stock/stockLists/update/Tech", token, gin.H{
		"name":    "Big Tech",
		"tickers": []string{"MSFT", "NVDA"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Renaming onto the seeded default list collides.
	w = doRequest(t, r, http.MethodPut, "/stock/stockLists/update/Big%20Tech", token, gin.H{
		"name":    "First List",
		"tickers": []string{"MSFT"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/stock/stockLists/delete/Big%20Tech", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/stock/stockLists/delete/Big%20Tech", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
