package utils

import "errors"

// Generative model failures.
var (
	ErrNoAPIKey       = errors.New("generative model api key is not configured")
	ErrNetworkFailure = errors.New("generative model request failed")
	ErrEmptyResponse  = errors.New("generative model returned an empty response")
	ErrParseFailure   = errors.New("generative model response did not contain json")
)

// Storage failures. These are logged at the store boundary and never abort a flow.
var (
	ErrStorageQuotaExceeded = errors.New("storage quota exceeded")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

var (
	ErrValidationFailure   = errors.New("step requirements not satisfied")
	ErrInvalidTransition   = errors.New("action not allowed at current step")
	ErrGenerationDiscarded = errors.New("generation result discarded")
	ErrInvalidInput        = errors.New("invalid input")
	ErrTripNotFound        = errors.New("trip not found")
	ErrPointNotFound       = errors.New("point not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrNoActiveTrip        = errors.New("no active trip")
	ErrNotFound            = errors.New("not found")
)
