package types

// CallState represents the lifecycle state of a voice call session
type CallState string

const (
	CallStateIdle       CallState = "idle"
	CallStateConnecting CallState = "connecting"
	CallStateListening  CallState = "listening"
	CallStateResponding CallState = "responding"
	CallStateError      CallState = "error"
)

// AllCallStates returns all valid call states
func AllCallStates() []CallState {
	return []CallState{
		CallStateIdle,
		CallStateConnecting,
		CallStateListening,
		CallStateResponding,
		CallStateError,
	}
}

// IsValid checks if the call state is valid
func (s CallState) IsValid() bool {
	switch s {
	case CallStateIdle,
		CallStateConnecting,
		CallStateListening,
		CallStateResponding,
		CallStateError:
		return true
	default:
		return false
	}
}

// Active reports whether a call is established (user or agent turn in progress)
func (s CallState) Active() bool {
	return s == CallStateListening || s == CallStateResponding
}

// String returns the string representation of the call state
func (s CallState) String() string {
	return string(s)
}
