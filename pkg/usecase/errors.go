package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrEmptyMessage       = goerr.New("message is empty")
	ErrVoiceNotConfigured = goerr.New("voice agent is not configured")
	ErrCallAlreadyActive  = goerr.New("a voice call is already in progress")
)
