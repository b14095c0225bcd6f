package model

// CallSession is the transient state of a live voice call. At most one
// instance exists at a time; it is never persisted.
type CallSession struct {
	Active      bool   `json:"active"`
	StatusLabel string `json:"statusLabel"`
	Listening   bool   `json:"listening"`
}

// AssistantConfig is the configuration handed to the voice pipeline
// service when starting a call. It carries only the public-facing
// pipeline selection; provider secrets never appear here.
type AssistantConfig struct {
	ModelProvider       string `json:"modelProvider"`
	Model               string `json:"model"`
	SystemPrompt        string `json:"systemPrompt"`
	TranscriberProvider string `json:"transcriberProvider"`
	TranscriberModel    string `json:"transcriberModel,omitempty"`
	VoiceProvider       string `json:"voiceProvider"`
	VoiceID             string `json:"voiceId"`
}

// VoiceSignal is one event received from the voice pipeline stream
type VoiceSignal struct {
	Text   string
	Reason string
}
