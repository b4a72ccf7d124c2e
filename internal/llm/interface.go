package llm

import (
	"context"

	"jobdeck-api/pkg/models"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// OptimizeCv produces tailored suggestions for the CV against a job posting
	OptimizeCv(ctx context.Context, cv *models.Cv, jobTitle, jobDescription string) (*models.OptimizationSuggestions, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
