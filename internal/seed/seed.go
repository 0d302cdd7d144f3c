package seed

import (
	"context"

	"github.com/hedgie-app/hedgie/internal/database"
	"github.com/hedgie-app/hedgie/internal/logger"
	"github.com/hedgie-app/hedgie/internal/models"
)

// Development fixtures. Seeding is idempotent: users and trackers are
// matched by name before insert, so repeated startups never duplicate.

var seedUsers = []models.User{
	{Name: "User 1", BalanceCLP: 1_000_000},
	{Name: "User 2", BalanceCLP: 5_000_000},
	{Name: "User 3", BalanceCLP: 500_000},
}

type seedTracker struct {
	tracker  models.Tracker
	holdings []models.TrackerHolding
}

var seedTrackers = []seedTracker{
	{
		tracker: models.Tracker{
			Name:           "Nancy Pelosi",
			Type:           models.TrackerPolitician,
			Description:    "Tech-heavy congressional portfolio tracked via STOCK Act disclosures.",
			YTDReturn:      34.5,
			AverageDelay:   45,
			RiskLevel:      models.HighRisk,
			FollowersCount: 12500,
		},
		holdings: []models.TrackerHolding{
			{Ticker: "NVDA", CompanyName: "NVIDIA Corporation", AllocationPercent: 40},
			{Ticker: "MSFT", CompanyName: "Microsoft Corporation", AllocationPercent: 35},
			{Ticker: "AAPL", CompanyName: "Apple Inc.", AllocationPercent: 25},
		},
	},
	{
		tracker: models.Tracker{
			Name:           "Warren Buffett",
			Type:           models.TrackerFund,
			Description:    "Berkshire Hathaway value-investing portfolio.",
			YTDReturn:      12.3,
			AverageDelay:   45,
			RiskLevel:      models.LowRisk,
			FollowersCount: 50000,
		},
		holdings: []models.TrackerHolding{
			{Ticker: "AAPL", CompanyName: "Apple Inc.", AllocationPercent: 50},
			{Ticker: "BAC", CompanyName: "Bank of America Corp", AllocationPercent: 30},
			{Ticker: "AXP", CompanyName: "American Express Company", AllocationPercent: 20},
		},
	},
}

// Run populates the database with development data.
func Run(ctx context.Context, db *database.DB, log *logger.Logger) error {
	for _, u := range seedUsers {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)`, u.Name,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		log.Infow("seeding user", "name", u.Name, "balance_clp", u.BalanceCLP)
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (name, balance_clp) VALUES ($1, $2)`, u.Name, u.BalanceCLP,
		); err != nil {
			return err
		}
	}

	for _, st := range seedTrackers {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM trackers WHERE name = $1)`, st.tracker.Name,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		log.Infow("seeding tracker", "name", st.tracker.Name)

		var trackerID int64
		err = db.QueryRowContext(ctx,
			`INSERT INTO trackers (name, type, avatar_url, description, ytd_return, average_delay, risk_level, followers_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			st.tracker.Name, st.tracker.Type, st.tracker.AvatarURL, st.tracker.Description,
			st.tracker.YTDReturn, st.tracker.AverageDelay, st.tracker.RiskLevel, st.tracker.FollowersCount,
		).Scan(&trackerID)
		if err != nil {
			return err
		}

		for _, h := range st.holdings {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO tracker_holdings (tracker_id, ticker, company_name, allocation_percent)
				 VALUES ($1, $2, $3, $4)`,
				trackerID, h.Ticker, h.CompanyName, h.AllocationPercent,
			); err != nil {
				return err
			}
		}
	}

	return nil
}
