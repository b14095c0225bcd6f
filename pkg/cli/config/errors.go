package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidLogLevel   = goerr.New("invalid log level")
	ErrInvalidLogFormat  = goerr.New("invalid log format")
	ErrInvalidBackend    = goerr.New("invalid storage backend")
	ErrInvalidGateway    = goerr.New("invalid gateway backend")
	ErrPersonaNotFound   = goerr.New("persona file not found")
	ErrInvalidPersona    = goerr.New("invalid persona definition")
	ErrMissingCredential = goerr.New("required credential is not configured")
)

// Context keys for error values
const (
	PersonaPathKey = "persona_path"
	BackendKey     = "backend"
	GatewayKey     = "gateway"
)
