package tracking

import "context"

type Service interface {
	// RecordPosition persists one live sample immediately.
	RecordPosition(ctx context.Context, req RecordPositionRequest) (PingResponse, error)

	LatestPositions(ctx context.Context) ([]PingResponse, error)
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}
