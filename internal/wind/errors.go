package wind

import "errors"

var (
	// ErrMissingCredential is returned when a provider that requires an API
	// key is invoked without one. Fatal for the refresh; nothing is fetched.
	ErrMissingCredential = errors.New("api credential is not configured")

	// ErrInvalidRange is returned for a start date after the end date or an
	// empty variable selection, before any network call is made.
	ErrInvalidRange = errors.New("invalid request range")

	// ErrNoData is returned when no observations are available.
	ErrNoData = errors.New("no wind data available")
)
