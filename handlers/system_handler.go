package handlers

import (
	"context"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/league-system/docs"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	db pinger
}

func NewSystemHandler(db pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, database := http.StatusOK, "ok"
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			status, database = http.StatusServiceUnavailable, "unreachable"
		}
	}

	if err := writeJSON(w, status, jsonResponse{"status": http.StatusText(status), "database": database}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SystemHandler) DocJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(docs.SwaggerJSON)
}

func (h *SystemHandler) SwaggerUI() http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL("/docs/doc.json"))
}
