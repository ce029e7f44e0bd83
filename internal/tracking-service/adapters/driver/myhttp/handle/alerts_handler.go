package handle

import (
	"encoding/json"
	"io"
	"net/http"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/ports/driver"
)

type AlertsHandler struct {
	alertService driver.IAlertService
	log          mylogger.Logger
}

func NewAlertsHandler(as driver.IAlertService, log mylogger.Logger) *AlertsHandler {
	return &AlertsHandler{
		alertService: as,
		log:          log,
	}
}

func (ah *AlertsHandler) RaiseEmergency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")

		req := dto.RaiseEmergencyRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.DriverID == "" {
			req.DriverID = r.Header.Get("X-UserId")
		}

		res, err := ah.alertService.RaiseEmergency(r.Context(), vehicleID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (ah *AlertsHandler) AcknowledgeSpeedAlert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID := r.PathValue("alert_id")

		// body is optional, the token subject is the fallback actor
		req := dto.AcknowledgeRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		actor := req.AcknowledgedBy
		if actor == "" {
			actor = r.Header.Get("X-UserId")
		}

		res, err := ah.alertService.AcknowledgeSpeedAlert(r.Context(), alertID, actor)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AlertsHandler) ResolveEmergencyAlert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID := r.PathValue("alert_id")

		req := dto.ResolveRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.ResolvedBy == "" {
			req.ResolvedBy = r.Header.Get("X-UserId")
		}

		res, err := ah.alertService.ResolveEmergencyAlert(r.Context(), alertID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AlertsHandler) ListSpeedAlerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outstanding := r.URL.Query().Get("outstanding") == "1"

		res, err := ah.alertService.SpeedAlerts(r.Context(), outstanding)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AlertsHandler) ListEmergencyAlerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outstanding := r.URL.Query().Get("outstanding") == "1"

		res, err := ah.alertService.EmergencyAlerts(r.Context(), outstanding)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
