package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
)

type StaffHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type staffHandlerImpl struct {
	staffService staff.Service
}

func NewStaffHandler(staffService staff.Service) StaffHandler {
	return &staffHandlerImpl{staffService: staffService}
}

// List implements StaffHandler.
func (h *staffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := staff.StaffFilter{
		Role:   optionalQuery(r, "role"),
		Status: optionalQuery(r, "status"),
		Search: optionalQuery(r, "search"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "limit", 20),
	}

	result, err := h.staffService.ListStaff(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Staff, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements StaffHandler.
func (h *staffHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.GetStaff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
