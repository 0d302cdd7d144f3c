package database

import "context"

// Schema is applied at startup. The UNIQUE constraint on
// (user_id, tracker_id) backs the portfolio upsert.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE,
    hashed_password TEXT NOT NULL DEFAULT '',
    balance_clp DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trackers (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    ytd_return DOUBLE PRECISION NOT NULL DEFAULT 0,
    average_delay INTEGER NOT NULL DEFAULT 45,
    risk_level TEXT NOT NULL,
    followers_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tracker_holdings (
    id BIGSERIAL PRIMARY KEY,
    tracker_id BIGINT NOT NULL REFERENCES trackers(id),
    ticker TEXT NOT NULL,
    company_name TEXT NOT NULL,
    allocation_percent DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolio_items (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    tracker_id BIGINT NOT NULL REFERENCES trackers(id),
    invested_amount_clp DOUBLE PRECISION NOT NULL DEFAULT 0,
    current_value_clp DOUBLE PRECISION NOT NULL DEFAULT 0,
    UNIQUE (user_id, tracker_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    tracker_id BIGINT NOT NULL REFERENCES trackers(id),
    type TEXT NOT NULL,
    amount_clp DOUBLE PRECISION NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tracker_holdings_tracker ON tracker_holdings(tracker_id);
CREATE INDEX IF NOT EXISTS idx_portfolio_items_user ON portfolio_items(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_user_ts ON transactions(user_id, timestamp DESC);
`

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
