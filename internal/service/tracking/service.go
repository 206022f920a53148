package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/domain/tracking"
	"github.com/trakby/trakby-backend-go/internal/pkg/geocode"
	"github.com/trakby/trakby-backend-go/internal/pkg/utils"
)

type TrackingServiceImpl struct {
	repo      tracking.Repository
	staffRepo staff.Repository
	geocoder  geocode.ReverseGeocoder
	now       func() time.Time
}

func NewTrackingService(repo tracking.Repository, staffRepo staff.Repository, geocoder geocode.ReverseGeocoder) *TrackingServiceImpl {
	return &TrackingServiceImpl{
		repo:      repo,
		staffRepo: staffRepo,
		geocoder:  geocoder,
		now:       time.Now,
	}
}

// RecordPosition implements tracking.Service.
func (s *TrackingServiceImpl) RecordPosition(ctx context.Context, req tracking.RecordPositionRequest) (tracking.PingResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.PingResponse{}, err
	}

	member, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		return tracking.PingResponse{}, err
	}
	if !member.IsActive() {
		return tracking.PingResponse{}, staff.ErrStaffInactive
	}

	ping := tracking.Ping{
		ID:         uuid.New().String(),
		StaffID:    req.StaffID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Accuracy:   req.Accuracy,
		RecordedAt: s.now(),
		StaffName:  &member.Name,
	}

	prev, err := s.repo.LastForStaff(ctx, req.StaffID)
	switch {
	case err == nil:
		ping.DistanceMeters = utils.CalculateHaversineDistance(prev.Latitude, prev.Longitude, ping.Latitude, ping.Longitude)
	case errors.Is(err, tracking.ErrNoPosition):
	default:
		return tracking.PingResponse{}, fmt.Errorf("failed to load previous position: %w", err)
	}

	addr, err := s.geocoder.Reverse(ctx, ping.Latitude, ping.Longitude)
	if err != nil {
		if !errors.Is(err, geocode.ErrDisabled) {
			slog.Debug("reverse geocoding failed for tracking ping", "staff_id", req.StaffID, "error", err)
		}
	} else if addr.ShortAddress != "" {
		ping.Address = &addr.ShortAddress
	}

	if err := s.repo.Append(ctx, ping); err != nil {
		return tracking.PingResponse{}, fmt.Errorf("failed to record position: %w", err)
	}

	return tracking.ToResponse(ping), nil
}

// LatestPositions implements tracking.Service.
func (s *TrackingServiceImpl) LatestPositions(ctx context.Context) ([]tracking.PingResponse, error) {
	pings, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.PingResponse, len(pings))
	for i, p := range pings {
		out[i] = tracking.ToResponse(p)
	}
	return out, nil
}

// History implements tracking.Service.
func (s *TrackingServiceImpl) History(ctx context.Context, filter tracking.HistoryFilter) (tracking.HistoryResponse, error) {
	since, err := filter.Validate()
	if err != nil {
		return tracking.HistoryResponse{}, err
	}
	if _, err := s.staffRepo.GetByID(ctx, filter.StaffID); err != nil {
		return tracking.HistoryResponse{}, err
	}

	pings, err := s.repo.History(ctx, filter.StaffID, since, filter.Limit)
	if err != nil {
		return tracking.HistoryResponse{}, err
	}

	resp := tracking.HistoryResponse{
		StaffID: filter.StaffID,
		Pings:   make([]tracking.PingResponse, len(pings)),
	}
	for i, p := range pings {
		// the first ping's distance points outside the window
		if i > 0 {
			resp.TotalDistanceMeters += p.DistanceMeters
		}
		resp.Pings[i] = tracking.ToResponse(p)
	}
	return resp, nil
}
