package handle

import (
	"encoding/json"
	"net/http"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/ports/driver"
)

type TrackingHandler struct {
	trackingService driver.ITrackingService
	log             mylogger.Logger
}

func NewTrackingHandler(ts driver.ITrackingService, log mylogger.Logger) *TrackingHandler {
	return &TrackingHandler{
		trackingService: ts,
		log:             log,
	}
}

// SubmitVehicleLocation ingests a report sent by an onboard GPS unit. The
// unit identifies its vehicle in the path and proves itself with X-Device-Key.
func (th *TrackingHandler) SubmitVehicleLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")
		deviceKey := r.Header.Get("X-Device-Key")

		req := dto.SubmitLocationRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := th.trackingService.SubmitByVehicle(r.Context(), vehicleID, deviceKey, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

// SubmitDriverLocation ingests a report from a driver's phone. The driver id
// comes from the auth middleware, not the request body.
func (th *TrackingHandler) SubmitDriverLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID := r.Header.Get("X-UserId")

		req := dto.SubmitLocationRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := th.trackingService.SubmitByDriver(r.Context(), driverID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}
