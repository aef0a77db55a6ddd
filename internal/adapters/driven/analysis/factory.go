// Package analysis provides factory functions for creating analyzer
// adapters from settings.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/docfold/docfold-cli/internal/adapters/driven/analysis/ollama"
	"github.com/docfold/docfold-cli/internal/adapters/driven/analysis/openai"
	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAnalyzer creates an analyzer backend from settings.
func CreateAnalyzer(settings *domain.AnalyzerSettings) (driven.Analyzer, error) {
	if settings == nil || !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: no provider configured", domain.ErrAnalyzerUnavailable)
	}

	switch settings.Provider {
	case domain.ProviderOpenAI:
		analyzer, err := openai.New(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAnalyzerUnavailable, err)
		}
		return analyzer, nil

	case domain.ProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrAnalyzerUnavailable, settings.Provider)
	}
}

// CreateAndValidateAnalyzer creates an analyzer and validates
// connectivity with a lightweight ping before any file is processed.
func CreateAndValidateAnalyzer(settings *domain.AnalyzerSettings) (driven.Analyzer, error) {
	analyzer, err := CreateAnalyzer(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := analyzer.Ping(ctx); err != nil {
		analyzer.Close()
		return nil, fmt.Errorf("%w: backend unreachable (%w)", domain.ErrAnalyzerUnavailable, err)
	}

	return analyzer, nil
}
