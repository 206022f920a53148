package performance

import "context"

type Service interface {
	// GetStaffReport serves both the admin detail view and the staff self-view.
	GetStaffReport(ctx context.Context, staffID string, window Window) (StaffReportResponse, error)

	GetLeaderboard(ctx context.Context, window Window) (LeaderboardResponse, error)
	GetDashboardSummary(ctx context.Context, window Window) (DashboardSummary, error)

	// Refresh recomputes the cached leaderboard for every window.
	Refresh(ctx context.Context) error

	// Invalidate drops the cached leaderboard for window.
	Invalidate(window Window)
}
