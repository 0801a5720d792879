// File: /models/stock.go
package models

import (
	"time"
)

// StockList is a named watchlist of tickers owned by a user.
type StockList struct {
	ID        uint        `json:"id" gorm:"primaryKey" bson:"-"`
	UserID    string      `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_stock_lists_user_name" bson:"user_id"`
	Name      string      `json:"name" gorm:"not null;size:100;uniqueIndex:uk_stock_lists_user_name" bson:"name"`
	Tickers   StringSlice `json:"tickers" gorm:"type:json" bson:"tickers"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// Stock is a single search result from the market-data provider.
type Stock struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// DefaultStockList is seeded for every new account.
func DefaultStockList() StockList {
	return StockList{
		Name:    "First List",
		Tickers: StringSlice{"AAPL", "MSFT", "TSLA", "AMZN", "NVDA"},
	}
}
