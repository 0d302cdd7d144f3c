package services

import (
	"context"
	"database/sql"

	"github.com/hedgie-app/hedgie/internal/cache"
	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/models"
)

// TrackerService serves the read-only tracker catalog. When a cache is
// configured the catalog reads go cache-aside; cache failures fall back
// to the database silently.
type TrackerService struct {
	db    *database.DB
	cache *cache.TrackerCache
}

func NewTrackerService(db *database.DB, c *cache.TrackerCache) *TrackerService {
	return &TrackerService{db: db, cache: c}
}

const trackerColumns = `id, name, type, avatar_url, description, ytd_return, average_delay, risk_level, followers_count`

func scanTracker(row interface{ Scan(...interface{}) error }, t *models.Tracker) error {
	return row.Scan(&t.ID, &t.Name, &t.Type, &t.AvatarURL, &t.Description,
		&t.YTDReturn, &t.AverageDelay, &t.RiskLevel, &t.FollowersCount)
}

// GetAllTrackers returns every tracker (marketplace view).
func (s *TrackerService) GetAllTrackers(ctx context.Context) ([]models.Tracker, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrackers(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+trackerColumns+` FROM trackers ORDER BY id`)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list trackers", err)
	}
	defer rows.Close()

	trackers := []models.Tracker{}
	for rows.Next() {
		var t models.Tracker
		if err := scanTracker(rows, &t); err != nil {
			return nil, apperrors.NewDatabaseError("scan tracker", err)
		}
		trackers = append(trackers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate trackers", err)
	}

	if s.cache != nil {
		s.cache.SetTrackers(ctx, trackers)
	}

	return trackers, nil
}

// GetTrackerByID returns one tracker or TrackerNotFound.
func (s *TrackerService) GetTrackerByID(ctx context.Context, trackerID int64) (*models.Tracker, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTracker(ctx, trackerID); err == nil && cached != nil {
			return cached, nil
		}
	}

	var t models.Tracker
	err := scanTracker(s.db.QueryRowContext(ctx,
		`SELECT `+trackerColumns+` FROM trackers WHERE id = $1`, trackerID), &t)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewTrackerNotFoundError(trackerID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get tracker", err)
	}

	if s.cache != nil {
		s.cache.SetTracker(ctx, &t)
	}

	return &t, nil
}

// GetTrackerHoldings returns the target composition for a tracker.
// Fails with TrackerNotFound when the tracker itself is missing.
func (s *TrackerService) GetTrackerHoldings(ctx context.Context, trackerID int64) ([]models.TrackerHolding, error) {
	if _, err := s.GetTrackerByID(ctx, trackerID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tracker_id, ticker, company_name, allocation_percent
		 FROM tracker_holdings WHERE tracker_id = $1 ORDER BY id`, trackerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list holdings", err)
	}
	defer rows.Close()

	holdings := []models.TrackerHolding{}
	for rows.Next() {
		var h models.TrackerHolding
		if err := rows.Scan(&h.ID, &h.TrackerID, &h.Ticker, &h.CompanyName, &h.AllocationPercent); err != nil {
			return nil, apperrors.NewDatabaseError("scan holding", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate holdings", err)
	}

	return holdings, nil
}

// performanceDates are shared by every mock series.
var performanceDates = []string{
	"2025-01-01", "2025-03-11", "2025-05-20", "2025-07-29", "2025-10-07", "2025-11-21",
}

// performanceSeries holds mock cumulative-return curves. Trackers are
// assigned a curve by ID, wrapping when there are more trackers than
// curves.
var performanceSeries = [][]float64{
	{0.0, 2.98, -4.17, 6.39, 26.27, 24.07},
	{0.0, 2.91, -3.52, 5.89, 27.31, 23.45},
	{0.0, 2.75, -3.75, 6.24, 26.94, 23.73},
	{0.0, 2.42, -2.89, 0.29, 5.83, 5.52},
	{0.0, -3.82, -1.25, 0.57, 1.37, 0.65},
	{0.0, -4.13, -0.88, 0.43, 1.68, 0.53},
	{0.0, 4.10, 7.78, 3.74, 4.23, 3.44},
	{0.0, 2.98, -4.17, 6.39, 26.27, 24.07},
}

// GetTrackerPerformance returns the mock cumulative-return series for a
// tracker. Fails with TrackerNotFound when the tracker is missing.
func (s *TrackerService) GetTrackerPerformance(ctx context.Context, trackerID int64) ([]models.PerformancePoint, error) {
	if _, err := s.GetTrackerByID(ctx, trackerID); err != nil {
		return nil, err
	}

	series := performanceSeries[(trackerID-1)%int64(len(performanceSeries))]
	points := make([]models.PerformancePoint, len(series))
	for i, v := range series {
		points[i] = models.PerformancePoint{Date: performanceDates[i], Return: v}
	}

	return points, nil
}
