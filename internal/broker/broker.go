package broker

import (
	"context"
	"database/sql"
	"time"

	"github.com/hedgie-app/hedgie/internal/database"
)

// Action is the side of a trade.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// TradeResult describes a completed (mock) trade.
type TradeResult struct {
	Ticker     string  `json:"ticker"`
	Shares     float64 `json:"shares"`
	Price      float64 `json:"price"`
	TotalValue float64 `json:"total_value"`
	Action     Action  `json:"action"`
	Status     string  `json:"status"`
}

// Broker is the capability a real brokerage integration would provide.
// Only the mock implementation exists; the investment path depends on
// this interface so a real broker can plug in without changing it.
type Broker interface {
	// GetBuyingPower returns the amount the user may currently invest.
	// A missing user yields 0, not an error.
	GetBuyingPower(ctx context.Context, userID int64) (float64, error)

	// GetCurrentPrice returns the market price for a ticker.
	GetCurrentPrice(ctx context.Context, ticker string) float64

	// ExecuteTrade places an order and returns the fill.
	ExecuteTrade(ctx context.Context, userID int64, ticker string, shares float64, action Action) (*TradeResult, error)
}

// mockPrices holds deterministic quotes for testing. Unknown tickers
// fall back to fallbackPrice.
var mockPrices = map[string]float64{
	"NVDA": 850.0,
	"MSFT": 420.0,
	"AAPL": 195.0,
	"BAC":  35.0,
	"AXP":  210.0,
}

const fallbackPrice = 100.0

// MockBroker simulates a brokerage: buying power is the raw cash
// balance, quotes come from a static table, and every trade fills after
// a simulated delay.
type MockBroker struct {
	db         *database.DB
	tradeDelay time.Duration
}

func NewMockBroker(db *database.DB, tradeDelay time.Duration) *MockBroker {
	return &MockBroker{db: db, tradeDelay: tradeDelay}
}

func (b *MockBroker) GetBuyingPower(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := b.db.QueryRowContext(ctx,
		`SELECT balance_clp FROM users WHERE id = $1`, userID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (b *MockBroker) GetCurrentPrice(_ context.Context, ticker string) float64 {
	if price, ok := mockPrices[ticker]; ok {
		return price
	}
	return fallbackPrice
}

// ExecuteTrade always fills. It sleeps for the configured delay to
// mimic network latency, honoring context cancellation.
func (b *MockBroker) ExecuteTrade(ctx context.Context, _ int64, ticker string, shares float64, action Action) (*TradeResult, error) {
	if b.tradeDelay > 0 {
		timer := time.NewTimer(b.tradeDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	price := b.GetCurrentPrice(ctx, ticker)
	return &TradeResult{
		Ticker:     ticker,
		Shares:     shares,
		Price:      price,
		TotalValue: shares * price,
		Action:     action,
		Status:     "filled",
	}, nil
}
