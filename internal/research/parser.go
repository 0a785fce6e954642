package research

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veriscope/veriscope/internal/models"
)

const (
	maxKeyFacts    = 5
	maxSources     = 5
	summaryLines   = 3
	insightLines   = 2
	insightMinimum = 5 // response must exceed this many lines to carry insights
)

var (
	bulletRe = regexp.MustCompile(`^(?:[•\-]|\d+\.)\s*`)
	urlRe    = regexp.MustCompile(`https?://[^\s]+`)
)

// parseResponse turns the service's line-oriented prose into the structured
// result: bullet lines become key facts, embedded URLs become sources, the
// leading lines the summary and the trailing lines the expert insights.
func parseResponse(content string, credRand func() int) models.ResearchResult {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	keyFacts := []string{}
	for _, line := range lines {
		if !bulletRe.MatchString(line) {
			continue
		}
		keyFacts = append(keyFacts, strings.TrimSpace(bulletRe.ReplaceAllString(line, "")))
		if len(keyFacts) == maxKeyFacts {
			break
		}
	}

	sources := []models.Source{}
	for i, u := range urlRe.FindAllString(content, -1) {
		if i == maxSources {
			break
		}
		sources = append(sources, models.Source{
			Title:            fmt.Sprintf("Source %d", i+1),
			URL:              u,
			Snippet:          "Credible source referenced by the research service",
			CredibilityScore: models.ClampScore(credRand()),
		})
	}

	summary := strings.Join(head(lines, summaryLines), " ")

	var insights *string
	if len(lines) > insightMinimum {
		joined := strings.Join(lines[len(lines)-insightLines:], " ")
		insights = &joined
	}

	return models.ResearchResult{
		Summary:        summary,
		KeyFacts:       keyFacts,
		Sources:        sources,
		ExpertInsights: insights,
	}
}

func head(lines []string, n int) []string {
	if len(lines) < n {
		return lines
	}
	return lines[:n]
}
