package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/performance"
	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
)

type PerformanceHandler interface {
	MyReport(w http.ResponseWriter, r *http.Request)
	StaffReport(w http.ResponseWriter, r *http.Request)
	Leaderboard(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	performanceService performance.Service
}

func NewPerformanceHandler(performanceService performance.Service) PerformanceHandler {
	return &performanceHandlerImpl{performanceService: performanceService}
}

func parseWindow(w http.ResponseWriter, r *http.Request) (performance.Window, bool) {
	window, err := performance.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	return window, true
}

// MyReport implements PerformanceHandler.
func (h *performanceHandlerImpl) MyReport(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	window, ok := parseWindow(w, r)
	if !ok {
		return
	}

	result, err := h.performanceService.GetStaffReport(r.Context(), p.StaffID, window)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StaffReport implements PerformanceHandler.
func (h *performanceHandlerImpl) StaffReport(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(w, r)
	if !ok {
		return
	}

	result, err := h.performanceService.GetStaffReport(r.Context(), chi.URLParam(r, "id"), window)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Leaderboard implements PerformanceHandler.
func (h *performanceHandlerImpl) Leaderboard(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(w, r)
	if !ok {
		return
	}

	result, err := h.performanceService.GetLeaderboard(r.Context(), window)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements PerformanceHandler.
func (h *performanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(w, r)
	if !ok {
		return
	}

	result, err := h.performanceService.GetDashboardSummary(r.Context(), window)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
