package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler/response"
	"wozamali-core/pkg/errno"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck godoc
// @Summary Check system health
// @Description Reports UP when every dependency (postgres, redis) answers
// @Tags system
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := gin.H{}
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = err.Error()
			healthy = false
			continue
		}
		deps[name] = "UP"
	}

	data := gin.H{
		"status":       "UP",
		"service":      "wozamali-server",
		"dependencies": deps,
	}
	if !healthy {
		data["status"] = "DOWN"
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    errno.InternalServerError.Code,
			Message: "unhealthy",
			Data:    data,
		})
		return
	}
	response.Success(c, data)
}
