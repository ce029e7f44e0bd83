package handle

import (
	"encoding/json"
	"net/http"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/ports/driver"
)

type ProgressHandler struct {
	progressService driver.IProgressService
	log             mylogger.Logger
}

func NewProgressHandler(ps driver.IProgressService, log mylogger.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: ps,
		log:             log,
	}
}

func (ph *ProgressHandler) RecordProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")

		req := dto.RecordProgressRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ph.progressService.RecordProgress(r.Context(), vehicleID, req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ph *ProgressHandler) GetProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")

		res, err := ph.progressService.GetProgress(r.Context(), vehicleID)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
