package handler

import (
	"net/http"

	"github.com/zhandos-t/ridelink/pkg/logger"
)

type Health struct {
	serviceName string
	log         logger.Logger
}

func NewHealth(serviceName string, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service
// @Tags         Health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "health_check")

	response := envelope{
		"status": "available",
		"system_info": map[string]string{
			"service-name": h.serviceName,
		},
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.log.Error(ctx, "healthcheck", err)
	}
}
