package config

// NewGeminiREST creates a rest-backend gateway configuration for tests
func NewGeminiREST(apiKey string) *Gemini {
	return &Gemini{backend: "rest", apiKey: apiKey}
}
