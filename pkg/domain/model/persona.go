package model

// VoiceProfile selects the speech pipeline used for voice calls
type VoiceProfile struct {
	ModelProvider       string
	Model               string
	TranscriberProvider string
	TranscriberModel    string
	VoiceProvider       string
	VoiceID             string
}

// Persona defines the assistant's identity: the system instructions sent
// to the language model, the greeting shown on an empty transcript, the
// canned fallback replies used when the model is unreachable, and the
// voice pipeline profile.
type Persona struct {
	Name              string
	SystemPrompt      string
	Greeting          string
	Placeholder       string
	FallbackResponses []string
	Voice             VoiceProfile
}

// AssistantConfig builds the voice pipeline configuration for this persona
func (p Persona) AssistantConfig() AssistantConfig {
	return AssistantConfig{
		ModelProvider:       p.Voice.ModelProvider,
		Model:               p.Voice.Model,
		SystemPrompt:        p.SystemPrompt,
		TranscriberProvider: p.Voice.TranscriberProvider,
		TranscriberModel:    p.Voice.TranscriberModel,
		VoiceProvider:       p.Voice.VoiceProvider,
		VoiceID:             p.Voice.VoiceID,
	}
}
