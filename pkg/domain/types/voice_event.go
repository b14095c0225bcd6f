package types

// VoiceEvent identifies an event emitted by the voice pipeline service
type VoiceEvent string

const (
	VoiceEventCallStart   VoiceEvent = "call-start"
	VoiceEventCallEnd     VoiceEvent = "call-end"
	VoiceEventSpeechStart VoiceEvent = "speech-start"
	VoiceEventSpeechEnd   VoiceEvent = "speech-end"
	VoiceEventMessage     VoiceEvent = "message"
	VoiceEventError       VoiceEvent = "error"
)

// AllVoiceEvents returns all voice events the client can subscribe to
func AllVoiceEvents() []VoiceEvent {
	return []VoiceEvent{
		VoiceEventCallStart,
		VoiceEventCallEnd,
		VoiceEventSpeechStart,
		VoiceEventSpeechEnd,
		VoiceEventMessage,
		VoiceEventError,
	}
}

// IsValid checks if the voice event is valid
func (e VoiceEvent) IsValid() bool {
	switch e {
	case VoiceEventCallStart,
		VoiceEventCallEnd,
		VoiceEventSpeechStart,
		VoiceEventSpeechEnd,
		VoiceEventMessage,
		VoiceEventError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the voice event
func (e VoiceEvent) String() string {
	return string(e)
}
