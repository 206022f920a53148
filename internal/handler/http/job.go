package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
)

type JobHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	jobService job.Service
}

func NewJobHandler(jobService job.Service) JobHandler {
	return &jobHandlerImpl{jobService: jobService}
}

// ListMine implements JobHandler.
func (h *jobHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListMyJobs(r.Context(), p.StaffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, jobs)
}

// UpdateStatus implements JobHandler.
func (h *jobHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req job.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.JobID = chi.URLParam(r, "id")
	req.ActorID = p.StaffID
	req.IsAdmin = p.IsAdmin()

	result, err := h.jobService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job status updated", result)
}
