package job

import "context"

type Service interface {
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (JobResponse, error)
	ListMyJobs(ctx context.Context, staffID string) ([]JobResponse, error)
}
