package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DescriptionCleaner strips pasted job-description HTML down to plain text
// suitable for prompting
type DescriptionCleaner struct {
	// Tags removed completely before text extraction
	removeTags []string
}

// NewDescriptionCleaner creates a new cleaner instance
func NewDescriptionCleaner() *DescriptionCleaner {
	return &DescriptionCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"form", "input", "button", "select", "textarea",
			"nav", "header", "footer", "aside", "menu",
			"svg", "path", "g", "defs", "use", "symbol",
			"meta", "link", "title", "base", "img",
		},
	}
}

// SanitizeDescription returns the readable text of a job description. Plain
// text passes through with whitespace normalisation; HTML input is parsed,
// stripped of chrome and boilerplate, and flattened to text.
func (dc *DescriptionCleaner) SanitizeDescription(description string) (string, error) {
	if !looksLikeHTML(description) {
		return dc.cleanExtractedText(description), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return "", err
	}

	for _, tag := range dc.removeTags {
		doc.Find(tag).Remove()
	}

	// Prefer the content containers job boards typically use.
	descriptionSelectors := []string{
		"main", "[role='main']", "article",
		".job-description", ".description", ".job-detail", ".posting",
		"[data-testid*='description']",
	}

	var contentParts []string
	for _, selector := range descriptionSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" && len(text) > 50 {
				contentParts = append(contentParts, text)
			}
		})
	}

	if len(contentParts) == 0 {
		if bodyText := strings.TrimSpace(doc.Find("body").Text()); bodyText != "" {
			contentParts = append(contentParts, bodyText)
		}
	}

	combined := strings.Join(contentParts, "\n\n")
	return dc.cleanExtractedText(combined), nil
}

func looksLikeHTML(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

// cleanExtractedText normalises whitespace and drops common boilerplate
func (dc *DescriptionCleaner) cleanExtractedText(text string) string {
	whitespaceRegex := regexp.MustCompile(`[ \t]+`)
	text = whitespaceRegex.ReplaceAllString(text, " ")

	newlineRegex := regexp.MustCompile(`\n{3,}`)
	text = newlineRegex.ReplaceAllString(text, "\n\n")

	patterns := []string{
		`\bJavaScript\s+is\s+disabled\b.*?enabled\.`,
		`\bCookies?\s+are\s+disabled\b.*?enabled\.`,
		`\bPlease\s+enable\s+JavaScript\b.*?`,
		`\bThis\s+site\s+requires\s+JavaScript\b.*?`,
	}
	for _, pattern := range patterns {
		regex := regexp.MustCompile(pattern)
		text = regex.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(text)
}

// EstimateTokens returns the approximate token count for the cleaned text
func (dc *DescriptionCleaner) EstimateTokens(text string) int {
	// Rough estimation: ~4 characters per token
	return len(text) / 4
}
