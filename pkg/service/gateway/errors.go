package gateway

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for gateway failures. Every failure mode carries a
// distinguishable reason, but callers treat all of them as a single
// failure signal: no partial result is ever returned.
var (
	ErrNoCredential      = goerr.New("language model credential is not configured")
	ErrTimeout           = goerr.New("language model request timed out")
	ErrRequestFailed     = goerr.New("language model request failed")
	ErrUpstreamStatus    = goerr.New("language model returned an error status")
	ErrMalformedResponse = goerr.New("language model response is malformed")
)
