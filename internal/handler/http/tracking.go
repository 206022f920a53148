package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/tracking"
	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
)

type TrackingHandler interface {
	RecordPosition(w http.ResponseWriter, r *http.Request)
	Latest(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type trackingHandlerImpl struct {
	trackingService tracking.Service
}

func NewTrackingHandler(trackingService tracking.Service) TrackingHandler {
	return &trackingHandlerImpl{trackingService: trackingService}
}

// RecordPosition implements TrackingHandler.
func (h *trackingHandlerImpl) RecordPosition(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req tracking.RecordPositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.StaffID = p.StaffID

	result, err := h.trackingService.RecordPosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position recorded", result)
}

// Latest implements TrackingHandler.
func (h *trackingHandlerImpl) Latest(w http.ResponseWriter, r *http.Request) {
	result, err := h.trackingService.LatestPositions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History implements TrackingHandler.
func (h *trackingHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	filter := tracking.HistoryFilter{
		StaffID: chi.URLParam(r, "id"),
		Since:   optionalQuery(r, "since"),
		Limit:   getIntQueryParam(r, "limit", 0),
	}

	result, err := h.trackingService.History(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
