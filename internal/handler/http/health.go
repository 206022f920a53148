package http

import (
	"context"
	"net/http"
	"time"

	"github.com/trakby/trakby-backend-go/internal/handler/http/response"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	db Pinger
}

func NewHealthHandler(db Pinger) HealthHandler {
	return &healthHandlerImpl{db: db}
}

// Healthz implements HealthHandler.
func (h *healthHandlerImpl) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.ServiceUnavailable(w, "database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
