package myerrors

import "errors"

// Validation errors: rejected synchronously, never retried.
var (
	ErrInvalidCoordinate = errors.New("latitude must be in [-90,90] and longitude in [-180,180]")
	ErrInvalidSpeed      = errors.New("speed must be >= 0")
	ErrMalformedRequest  = errors.New("malformed request body")
	ErrInvalidAlertType  = errors.New("unknown alert type")
)

// Not-found errors.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrDriverNotFound  = errors.New("driver profile not found")
	ErrDeviceNotFound  = errors.New("device not registered")
	ErrAlertNotFound   = errors.New("alert not found")
	ErrNoProgress      = errors.New("no route progress found")
)

// State-conflict errors: surfaced distinctly from not-found so clients can
// treat them idempotently if they choose to.
var (
	ErrVehicleInactive     = errors.New("vehicle is not active")
	ErrDriverInactive      = errors.New("driver is not active")
	ErrNoVehicleAssigned   = errors.New("no vehicle assigned to driver")
	ErrAlreadyAcknowledged = errors.New("alert already acknowledged")
	ErrAlreadyResolved     = errors.New("alert already resolved")
	ErrBadDeviceKey        = errors.New("device key rejected")
)
