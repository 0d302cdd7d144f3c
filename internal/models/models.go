package models

import (
	"time"
)

// User is a registered account holding a cash balance in Chilean Pesos.
// Balances only change through deposits, withdrawals and investment debits.
type User struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email,omitempty" db:"email"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	BalanceCLP     float64   `json:"balance_clp" db:"balance_clp"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// TrackerType distinguishes the kind of entity being copied.
type TrackerType string

const (
	TrackerFund       TrackerType = "fund"
	TrackerPolitician TrackerType = "politician"
)

type RiskLevel string

const (
	LowRisk    RiskLevel = "Low"
	MediumRisk RiskLevel = "Medium"
	HighRisk   RiskLevel = "High"
)

// Tracker is a followable investment strategy (hedge fund or politician).
// Trackers are read-only reference data at request time.
type Tracker struct {
	ID             int64       `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Type           TrackerType `json:"type" db:"type"`
	AvatarURL      string      `json:"avatar_url,omitempty" db:"avatar_url"`
	Description    string      `json:"description,omitempty" db:"description"`
	YTDReturn      float64     `json:"ytd_return" db:"ytd_return"`
	AverageDelay   int         `json:"average_delay" db:"average_delay"`
	RiskLevel      RiskLevel   `json:"risk_level" db:"risk_level"`
	FollowersCount int         `json:"followers_count" db:"followers_count"`
}

// TrackerHolding is one stock within a tracker's target composition.
// Allocation percentages are descriptive; they are not validated to sum to 100.
type TrackerHolding struct {
	ID                int64   `json:"id" db:"id"`
	TrackerID         int64   `json:"tracker_id" db:"tracker_id"`
	Ticker            string  `json:"ticker" db:"ticker"`
	CompanyName       string  `json:"company_name" db:"company_name"`
	AllocationPercent float64 `json:"allocation_percent" db:"allocation_percent"`
}

// PortfolioItem is a user's cumulative position in one tracker.
// There is at most one row per (user, tracker) pair.
type PortfolioItem struct {
	ID                int64   `json:"id" db:"id"`
	UserID            int64   `json:"user_id" db:"user_id"`
	TrackerID         int64   `json:"tracker_id" db:"tracker_id"`
	InvestedAmountCLP float64 `json:"invested_amount_clp" db:"invested_amount_clp"`
	CurrentValueCLP   float64 `json:"current_value_clp" db:"current_value_clp"`
}

type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Transaction is an immutable record of one monetary event.
type Transaction struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"user_id" db:"user_id"`
	TrackerID int64           `json:"tracker_id" db:"tracker_id"`
	Type      TransactionType `json:"type" db:"type"`
	AmountCLP float64         `json:"amount_clp" db:"amount_clp"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

// TransactionRecord is a ledger entry joined with its tracker name for display.
type TransactionRecord struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	TrackerID   int64           `json:"tracker_id"`
	TrackerName string          `json:"tracker_name"`
	AmountCLP   float64         `json:"amount_clp"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ActiveTracker is the per-tracker breakdown inside a portfolio summary.
type ActiveTracker struct {
	TrackerID         int64   `json:"tracker_id"`
	TrackerName       string  `json:"tracker_name"`
	InvestedAmountCLP float64 `json:"invested_amount_clp"`
	CurrentValueCLP   float64 `json:"current_value_clp"`
	ProfitLossCLP     float64 `json:"profit_loss_clp"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// PortfolioSummary aggregates a user's positions across all trackers.
type PortfolioSummary struct {
	UserID                 int64           `json:"user_id"`
	AvailableBalanceCLP    float64         `json:"available_balance_clp"`
	TotalInvestedCLP       float64         `json:"total_invested_clp"`
	TotalCurrentValueCLP   float64         `json:"total_current_value_clp"`
	TotalProfitLossCLP     float64         `json:"total_profit_loss_clp"`
	TotalProfitLossPercent float64         `json:"total_profit_loss_percent"`
	ActiveTrackers         []ActiveTracker `json:"active_trackers"`
}

// PerformancePoint is one step in a tracker's cumulative-return series.
type PerformancePoint struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
}
