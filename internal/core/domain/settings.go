package domain

import "time"

// AnalyzerProvider identifies an analyzer backend.
type AnalyzerProvider string

// Available analyzer providers.
const (
	// ProviderOpenAI uses an OpenAI-compatible chat completions API.
	ProviderOpenAI AnalyzerProvider = "openai"

	// ProviderOllama uses a local Ollama server.
	ProviderOllama AnalyzerProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p AnalyzerProvider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AnalyzerProvider) String() string {
	return string(p)
}

// AnalyzerSettings configures the analyzer backend.
type AnalyzerSettings struct {
	// Provider selects the backend implementation.
	Provider AnalyzerProvider

	// Model is the model name, provider-specific.
	Model string

	// BaseURL overrides the provider's default API base URL.
	BaseURL string

	// APIKey authenticates against the provider, where required.
	APIKey string

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// IsConfigured returns true if enough is set to create a backend.
func (s *AnalyzerSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider == ProviderOpenAI {
		return s.APIKey != ""
	}
	return true
}

// GenerateSettings configures a generation run.
type GenerateSettings struct {
	// Extensions are the source file extensions to scan,
	// e.g. [".py"]. Must be non-empty.
	Extensions []string

	// Concurrency bounds the number of files processed in parallel,
	// and therefore the number of in-flight analyzer calls.
	Concurrency int

	// RatePerSecond limits analyzer calls across all workers.
	// Zero disables rate limiting.
	RatePerSecond float64
}

// Defaults for generation settings.
const (
	DefaultExtension   = ".py"
	DefaultConcurrency = 4
)

// Normalise fills unset fields with defaults.
func (s *GenerateSettings) Normalise() {
	if len(s.Extensions) == 0 {
		s.Extensions = []string{DefaultExtension}
	}
	if s.Concurrency <= 0 {
		s.Concurrency = DefaultConcurrency
	}
}
