package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DBProbe — то, что health check спрашивает у пула соединений.
// *sqlx.DB подходит напрямую.
type DBProbe interface {
	PingContext(ctx context.Context) error
	Stats() sql.DBStats
}

const healthPingTimeout = 3 * time.Second

// HealthHandler отвечает на GET /health.
type HealthHandler struct {
	db      DBProbe
	started time.Time
}

// NewHealthHandler создаёт health handler.
func NewHealthHandler(db DBProbe) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// HealthResponse — ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health пингует базу и смотрит на заполненность пула.
// 503, если база недоступна; исчерпанный пул только предупреждение.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Checks:    map[string]string{},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Checks["database"] = "down: " + err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	resp.Checks["database"] = "ok"

	pool := h.db.Stats()
	switch {
	case pool.MaxOpenConnections > 0 && pool.InUse >= pool.MaxOpenConnections:
		resp.Checks["pool"] = "exhausted"
	default:
		resp.Checks["pool"] = "ok"
	}

	c.JSON(http.StatusOK, resp)
}
