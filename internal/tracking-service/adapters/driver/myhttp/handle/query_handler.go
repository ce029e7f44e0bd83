package handle

import (
	"net/http"
	"strconv"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/ports/driver"
)

type QueryHandler struct {
	queryService driver.IQueryService
	log          mylogger.Logger
}

func NewQueryHandler(qs driver.IQueryService, log mylogger.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: qs,
		log:          log,
	}
}

func (qh *QueryHandler) Positions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := dto.PositionsFilter{
			ActiveOnly:    q.Get("active_only") == "1" || q.Get("active_only") == "true",
			RouteID:       q.Get("route_id"),
			VehicleNumber: q.Get("vehicle_number"),
		}

		res, err := qh.queryService.LatestPositions(r.Context(), filter)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (qh *QueryHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		res, err := qh.queryService.History(r.Context(), vehicleID, limit)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (qh *QueryHandler) FleetSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := qh.queryService.FleetSummary(r.Context())
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
