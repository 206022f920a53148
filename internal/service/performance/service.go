package performance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/domain/performance"
	"github.com/trakby/trakby-backend-go/internal/domain/photo"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"golang.org/x/sync/errgroup"
)

type cachedBoard struct {
	resp       performance.LeaderboardResponse
	computedAt time.Time
}

type PerformanceServiceImpl struct {
	staffRepo      staff.Repository
	jobRepo        job.Repository
	attendanceRepo attendance.Repository
	photoRepo      photo.Repository

	loc      *time.Location
	cacheTTL time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	cache map[performance.Window]cachedBoard
	// generation is bumped by Invalidate; a recompute that started under an
	// older generation must not publish its board.
	generation map[performance.Window]uint64
}

// NewPerformanceService builds the scoring service. cacheTTL <= 0 disables
// leaderboard caching.
func NewPerformanceService(
	staffRepo staff.Repository,
	jobRepo job.Repository,
	attendanceRepo attendance.Repository,
	photoRepo photo.Repository,
	loc *time.Location,
	cacheTTL time.Duration,
) *PerformanceServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &PerformanceServiceImpl{
		staffRepo:      staffRepo,
		jobRepo:        jobRepo,
		attendanceRepo: attendanceRepo,
		photoRepo:      photoRepo,
		loc:            loc,
		cacheTTL:       cacheTTL,
		now:            time.Now,
		cache:          make(map[performance.Window]cachedBoard),
		generation:     make(map[performance.Window]uint64),
	}
}

// GetStaffReport implements performance.Service.
func (s *PerformanceServiceImpl) GetStaffReport(ctx context.Context, staffID string, window performance.Window) (performance.StaffReportResponse, error) {
	member, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return performance.StaffReportResponse{}, err
	}

	now := s.now().In(s.loc)
	start := window.Start(now)

	var (
		jobs       []job.Job
		records    []attendance.Record
		photoCount int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.jobRepo.ListByAssignee(gCtx, staffID, start)
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListSince(gCtx, &staffID, start)
		if err != nil {
			return fmt.Errorf("attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		photoCount, err = s.photoRepo.CountByUploader(gCtx, staffID, start)
		if err != nil {
			return fmt.Errorf("photos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return performance.StaffReportResponse{}, fmt.Errorf("failed to load performance data: %w", err)
	}

	report := performance.ComputeScore(performance.ScoreInput{
		StaffID:     staffID,
		Jobs:        jobs,
		Attendance:  records,
		PhotoCount:  photoCount,
		WindowStart: start,
		Location:    s.loc,
	})

	return performance.StaffReportResponse{
		StaffID:     member.ID,
		StaffName:   member.Name,
		Window:      window,
		WindowStart: start,
		GeneratedAt: now,
		Report:      report,
	}, nil
}

// GetLeaderboard implements performance.Service.
func (s *PerformanceServiceImpl) GetLeaderboard(ctx context.Context, window performance.Window) (performance.LeaderboardResponse, error) {
	if resp, ok := s.cached(window); ok {
		return resp, nil
	}
	return s.recompute(ctx, window)
}

// GetDashboardSummary implements performance.Service.
func (s *PerformanceServiceImpl) GetDashboardSummary(ctx context.Context, window performance.Window) (performance.DashboardSummary, error) {
	board, err := s.GetLeaderboard(ctx, window)
	if err != nil {
		return performance.DashboardSummary{}, err
	}
	return performance.Summarize(window, board.Entries), nil
}

// Refresh implements performance.Service.
func (s *PerformanceServiceImpl) Refresh(ctx context.Context) error {
	var errs []error
	for _, w := range performance.Windows {
		if _, err := s.recompute(ctx, w); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w, err))
		}
	}
	return errors.Join(errs...)
}

// Invalidate implements performance.Service.
func (s *PerformanceServiceImpl) Invalidate(window performance.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, window)
	s.generation[window]++
}

func (s *PerformanceServiceImpl) cached(window performance.Window) (performance.LeaderboardResponse, bool) {
	if s.cacheTTL <= 0 {
		return performance.LeaderboardResponse{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cache[window]
	if !ok || s.now().Sub(c.computedAt) > s.cacheTTL {
		return performance.LeaderboardResponse{}, false
	}
	return c.resp, true
}

// recompute loads every active staff member's data for the window in parallel and ranks them.
func (s *PerformanceServiceImpl) recompute(ctx context.Context, window performance.Window) (performance.LeaderboardResponse, error) {
	s.mu.RLock()
	gen := s.generation[window]
	s.mu.RUnlock()

	now := s.now().In(s.loc)
	start := window.Start(now)

	var (
		members []staff.Member
		jobs    []job.Job
		records []attendance.Record
		photos  []photo.Photo
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.staffRepo.ListByRole(gCtx, staff.RoleStaff)
		if err != nil {
			return fmt.Errorf("staff: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		jobs, err = s.jobRepo.ListAssigned(gCtx, start)
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListSince(gCtx, nil, start)
		if err != nil {
			return fmt.Errorf("attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		photos, err = s.photoRepo.ListSince(gCtx, start)
		if err != nil {
			return fmt.Errorf("photos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return performance.LeaderboardResponse{}, fmt.Errorf("failed to load leaderboard data: %w", err)
	}

	grouped := performance.GroupByStaff(members, jobs, records, photos)
	snapshots := make([]performance.Snapshot, 0, len(members))
	for _, m := range members {
		snapshots = append(snapshots, grouped[m.ID])
	}

	resp := performance.LeaderboardResponse{
		Window:      window,
		WindowStart: start,
		GeneratedAt: now,
		Entries:     performance.BuildLeaderboard(snapshots, start, s.loc),
	}

	if s.cacheTTL > 0 {
		s.mu.Lock()
		if s.generation[window] == gen {
			s.cache[window] = cachedBoard{resp: resp, computedAt: now}
		}
		s.mu.Unlock()
	}
	return resp, nil
}
