package http

import (
	"net/http"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/validator"
)

type MetricsHandler interface {
	GetGroupMetrics(w http.ResponseWriter, r *http.Request)
	GetAllGroupsMetrics(w http.ResponseWriter, r *http.Request)
}

type metricsHandlerImpl struct {
	metricsService metrics.MetricsService
}

func NewMetricsHandler(metricsService metrics.MetricsService) MetricsHandler {
	return &metricsHandlerImpl{
		metricsService: metricsService,
	}
}

// GetGroupMetrics implements MetricsHandler.
func (h *metricsHandlerImpl) GetGroupMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, year := validator.ParseOptionalInt(q.Get("month")), validator.ParseOptionalInt(q.Get("year"))

	result, err := h.metricsService.GetGroupMetrics(r.Context(), q.Get("group"), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAllGroupsMetrics implements MetricsHandler.
func (h *metricsHandlerImpl) GetAllGroupsMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, year := validator.ParseOptionalInt(q.Get("month")), validator.ParseOptionalInt(q.Get("year"))

	result, err := h.metricsService.GetAllGroupsMetrics(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
