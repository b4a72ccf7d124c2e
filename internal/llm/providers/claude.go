package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobdeck-api/internal/config"
	"jobdeck-api/internal/llm/processors"
	"jobdeck-api/internal/logging"
	"jobdeck-api/pkg/models"
)

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client      anthropic.Client
	config      *config.Config
	htmlCleaner *processors.DescriptionCleaner
	logger      logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client:      client,
		config:      cfg,
		htmlCleaner: processors.NewDescriptionCleaner(),
		logger:      logging.GetGlobalLogger(),
	}
}

// OptimizeCv asks Claude for tailored CV suggestions against a job posting
func (cp *ClaudeProvider) OptimizeCv(ctx context.Context, cv *models.Cv, jobTitle, jobDescription string) (*models.OptimizationSuggestions, error) {
	startTime := time.Now()

	cp.logger.Info("Starting CV optimization with Claude", map[string]interface{}{
		"cv_id":     cv.ID,
		"job_title": jobTitle,
		"provider":  "claude",
	})

	// Job descriptions frequently arrive as pasted HTML; strip it down to text.
	cleanedDescription, err := cp.htmlCleaner.SanitizeDescription(jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to clean job description: %w", err)
	}

	// Rough estimation: 3 chars per token.
	maxContentLength := cp.config.LLM.MaxTokens * 3
	if len(cleanedDescription) > maxContentLength {
		cleanedDescription = cleanedDescription[:maxContentLength] + "..."
		cp.logger.Debug("Job description truncated to fit token limits", map[string]interface{}{
			"cv_id": cv.ID,
		})
	}

	prompt, err := cp.buildOptimizationPrompt(cv, jobTitle, cleanedDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       cp.model(),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	suggestions, err := cp.parseClaudeResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	cp.logger.Info("CV optimization completed successfully", map[string]interface{}{
		"cv_id":           cv.ID,
		"job_title":       jobTitle,
		"processing_time": time.Since(startTime),
		"provider":        "claude",
	})

	return suggestions, nil
}

func (cp *ClaudeProvider) model() anthropic.Model {
	if cp.config.LLM.Model != "" {
		return anthropic.Model(cp.config.LLM.Model)
	}
	return anthropic.ModelClaude3_7SonnetLatest
}

// buildOptimizationPrompt creates the prompt for Claude to suggest CV edits
func (cp *ClaudeProvider) buildOptimizationPrompt(cv *models.Cv, jobTitle, jobDescription string) (string, error) {
	cvJSON, err := json.MarshalIndent(struct {
		Summary    string              `json:"summary"`
		Skills     []string            `json:"skills"`
		Experience []models.Experience `json:"experience"`
		Education  []models.Education  `json:"education"`
	}{cv.Summary, cv.Skills, cv.Experience, cv.Education}, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a CV optimization assistant. Given a candidate CV and a target job posting, suggest targeted improvements and return them as a JSON object.

Return a valid JSON object with exactly these fields:

{
  "summary": {
    "suggestion": "string - A rewritten professional summary tailored to the posting",
    "reason": "string - One sentence explaining the change"
  },
  "skills": {
    "suggestions": ["array of strings - The full recommended skill list, reordered and extended for this posting"],
    "reason": "string - One sentence explaining the changes"
  },
  "experience": [
    {
      "index": number - Zero-based index of the experience entry being edited,
      "field": "string - One of: title, company, location, description",
      "suggestion": "string - The rewritten field value",
      "reason": "string - One sentence explaining the change"
    }
  ],
  "education": [
    {
      "index": number - Zero-based index of the education entry being edited,
      "field": "string - One of: school, degree, field_of_study, description",
      "suggestion": "string - The rewritten field value",
      "reason": "string - One sentence explaining the change"
    }
  ]
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. Every suggestion must be grounded in the actual CV content; never invent experience the candidate does not have
3. Omit a section (use null for summary/skills, [] for experience/education) when you have no improvement for it
4. Indexes refer to the entries in the CV below, in order
5. Keep suggestions concise and concrete

TARGET JOB TITLE:
%s

TARGET JOB DESCRIPTION:
%s

CANDIDATE CV:
%s`, jobTitle, jobDescription, string(cvJSON)), nil
}

// parseClaudeResponse parses the Claude API response into a suggestion bundle
func (cp *ClaudeProvider) parseClaudeResponse(response *anthropic.Message) (*models.OptimizationSuggestions, error) {
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in Claude response")
	}

	// Strip markdown code fences if present.
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	cp.logger.Debug("Claude response received", map[string]interface{}{
		"response_length": len(responseText),
	})

	var suggestions models.OptimizationSuggestions
	if err := json.Unmarshal([]byte(responseText), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w, response: %s", err, responseText)
	}

	if suggestions.Summary == nil && suggestions.Skills == nil &&
		len(suggestions.Experience) == 0 && len(suggestions.Education) == 0 {
		return nil, fmt.Errorf("Claude returned no usable suggestions")
	}

	return &suggestions, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     cp.model(),
		MaxTokens: 500,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
