// File: /controllers/stock_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stocktalk-api/models"
	"stocktalk-api/services"
	"stocktalk-api/storage"
	"stocktalk-api/utils"
)

type StockController struct {
	store  storage.Storage
	stocks *services.StockService
}

func NewStockController(store storage.Storage, stocks *services.StockService) *StockController {
	return &StockController{store: store, stocks: stocks}
}

func (sc *StockController) respondStockError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrStockUnavailable) {
		utils.SendError(c, http.StatusNotFound, "Stock not found")
		return
	}
	utils.SendError(c, http.StatusInternalServerError, "Internal server error")
}

func (sc *StockController) SearchStocks(c *gin.Context) {
	ticker := utils.NormalizeTicker(c.Query("ticker"))
	if ticker == "" {
		utils.SendValidationError(c, "ticker is required")
		return
	}

	stock, err := sc.stocks.Search(c.Request.Context(), ticker)
	if err != nil {
		sc.respondStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, stock)
}

func (sc *StockController) GetStockInfo(c *gin.Context) {
	ticker := utils.NormalizeTicker(c.Param("ticker"))
	if !utils.IsValidTicker(ticker) {
		utils.SendValidationError(c, "Invalid ticker symbol")
		return
	}

	info, err := sc.stocks.Info(c.Request.Context(), ticker)
	if err != nil {
		sc.respondStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// GetStockPrices returns current prices for a comma-separated tickers
// query parameter.
func (sc *StockController) GetStockPrices(c *gin.Context) {
	raw := c.Query("tickers")
	if raw == "" {
		utils.SendValidationError(c, "tickers is required")
		return
	}

	var tickers []string
	for _, t := range strings.Split(raw, ",") {
		ticker := utils.NormalizeTicker(t)
		if ticker != "" {
			tickers = append(tickers, ticker)
		}
	}
	if len(tickers) == 0 {
		utils.SendValidationError(c, "tickers is required")
		return
	}

	prices, err := sc.stocks.Prices(c.Request.Context(), tickers)
	if err != nil {
		sc.respondStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, prices)
}

func (sc *StockController) CreateStockList(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name    string   `json:"name" binding:"required"`
		Tickers []string `json:"tickers"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidListName(req.Name) {
		utils.SendValidationError(c, "List name must be 1-50 characters")
		return
	}

	tickers, ok := normalizeTickers(req.Tickers)
	if !ok {
		utils.SendValidationError(c, "Invalid ticker symbol in list")
		return
	}

	list := models.StockList{
		Name:    strings.TrimSpace(req.Name),
		Tickers: models.StringSlice(tickers),
	}

	if err := sc.store.CreateStockList(c.Request.Context(), userID, &list); err != nil {
		respondStorageError(c, err, "User not found", "A list with this name already exists")
		return
	}

	c.JSON(http.StatusCreated, list)
}

func (sc *StockController) UpdateStockList(c *gin.Context) {
	userID := c.GetString("user_id")
	listName := c.Param("listName")

	var req struct {
		Name    string   `json:"name"`
		Tickers []string `json:"tickers"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newName := strings.TrimSpace(req.Name)
	if newName == "" {
		newName = listName
	}
	if !utils.IsValidListName(newName) {
		utils.SendValidationError(c, "List name must be 1-50 characters")
		return
	}

	tickers, ok := normalizeTickers(req.Tickers)
	if !ok {
		utils.SendValidationError(c, "Invalid ticker symbol in list")
		return
	}

	if err := sc.store.UpdateStockList(c.Request.Context(), userID, listName, newName, tickers); err != nil {
		respondStorageError(c, err, "List not found", "A list with this name already exists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List updated successfully"})
}

func (sc *StockController) DeleteStockList(c *gin.Context) {
	userID := c.GetString("user_id")
	listName := c.Param("listName")

	if err := sc.store.DeleteStockList(c.Request.Context(), userID, listName); err != nil {
		respondStorageError(c, err, "List not found", "Conflict")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List deleted successfully"})
}

func normalizeTickers(raw []string) ([]string, bool) {
	tickers := make([]string, 0, len(raw))
	for _, t := range raw {
		ticker := utils.NormalizeTicker(t)
		if !utils.IsValidTicker(ticker) {
			return nil, false
		}
		tickers = append(tickers, ticker)
	}
	return tickers, true
}
