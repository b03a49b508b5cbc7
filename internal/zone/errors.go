package zone

import "errors"

var (
	ErrZoneProtected     = errors.New("zone is protected")
	ErrZoneReserved      = errors.New("zone name is reserved for the front end")
	ErrUnknownZone       = errors.New("unknown zone")
	ErrZoneExists        = errors.New("zone already registered")
	ErrOperationInFlight = errors.New("zone operation already in flight")
)
