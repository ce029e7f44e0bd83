package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"bus-track/internal/tracking-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFor maps domain sentinels onto HTTP status codes. Anything unknown is
// treated as a storage failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrInvalidCoordinate),
		errors.Is(err, myerrors.ErrInvalidSpeed),
		errors.Is(err, myerrors.ErrMalformedRequest),
		errors.Is(err, myerrors.ErrInvalidAlertType):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrVehicleNotFound),
		errors.Is(err, myerrors.ErrDriverNotFound),
		errors.Is(err, myerrors.ErrDeviceNotFound),
		errors.Is(err, myerrors.ErrAlertNotFound),
		errors.Is(err, myerrors.ErrNoProgress):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrVehicleInactive),
		errors.Is(err, myerrors.ErrDriverInactive),
		errors.Is(err, myerrors.ErrNoVehicleAssigned),
		errors.Is(err, myerrors.ErrAlreadyAcknowledged),
		errors.Is(err, myerrors.ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrBadDeviceKey):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// serviceError is the common exit path for handlers once the service layer
// returned an error.
func serviceError(w http.ResponseWriter, err error) {
	JsonError(w, statusFor(err), err)
}
