package handlers

import (
	"context"
	"net/http"

	"github.com/hedgie-app/hedgie/internal/models"
)

type TrackerCatalog interface {
	GetAllTrackers(ctx context.Context) ([]models.Tracker, error)
	GetTrackerByID(ctx context.Context, trackerID int64) (*models.Tracker, error)
	GetTrackerHoldings(ctx context.Context, trackerID int64) ([]models.TrackerHolding, error)
	GetTrackerPerformance(ctx context.Context, trackerID int64) ([]models.PerformancePoint, error)
}

type TrackerHandler struct {
	trackers TrackerCatalog
}

func NewTrackerHandler(trackers TrackerCatalog) *TrackerHandler {
	return &TrackerHandler{trackers: trackers}
}

// ListTrackers returns the marketplace view.
func (h *TrackerHandler) ListTrackers(w http.ResponseWriter, r *http.Request) {
	trackers, err := h.trackers.GetAllTrackers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, trackers)
}

// GetTracker returns one tracker's detail.
func (h *TrackerHandler) GetTracker(w http.ResponseWriter, r *http.Request) {
	trackerID, appErr := pathID(r, "id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	tracker, err := h.trackers.GetTrackerByID(r.Context(), trackerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tracker)
}

// GetHoldings returns a tracker's target composition.
func (h *TrackerHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	trackerID, appErr := pathID(r, "id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	holdings, err := h.trackers.GetTrackerHoldings(r.Context(), trackerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, holdings)
}

// GetPerformance returns a tracker's mock cumulative-return series.
func (h *TrackerHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	trackerID, appErr := pathID(r, "id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	points, err := h.trackers.GetTrackerPerformance(r.Context(), trackerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, points)
}
