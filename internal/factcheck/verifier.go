package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/veriscope/veriscope/internal/llm"
	"github.com/veriscope/veriscope/internal/models"
)

const verifySystemPrompt = "You are a fact-checking assistant. Verify the given claim and provide sources. " +
	"Respond in JSON format with: status (verified/partially-true/false/unverifiable), " +
	"sources (array of {title, url, credibilityScore}), and explanation."

const fallbackExplanation = "Unable to verify with external sources at this time."

// neutralWeight is the credibility weight for unverifiable or unknown
// statuses, and the defined default when no claims were extracted.
const neutralWeight = 50

var statusWeights = map[models.ClaimStatus]int{
	models.StatusVerified:      100,
	models.StatusPartiallyTrue: 50,
	models.StatusFalse:         0,
	models.StatusUnverifiable:  50,
}

// Verifier runs the full claim-verification step: extraction, concurrent
// per-claim verification, credibility aggregation, and bias detection.
type Verifier struct {
	provider    llm.Provider
	temperature float64
}

// NewVerifier creates a verifier backed by the given model provider.
func NewVerifier(provider llm.Provider, temperature float64) *Verifier {
	return &Verifier{provider: provider, temperature: temperature}
}

// Verify fact-checks text. It never fails outward: a failed verification call
// resolves that one claim to unverifiable and the batch continues, so the
// worst case is a fully unverifiable (neutral) result.
func (v *Verifier) Verify(ctx context.Context, text string) models.FactCheckResult {
	claimTexts := ExtractClaims(text)
	claims := make([]models.Claim, len(claimTexts))

	// Fan out one verification per claim; each slot is written only by its
	// own goroutine, so result order always follows claim order.
	var wg sync.WaitGroup
	for i, claimText := range claimTexts {
		wg.Add(1)
		go func(idx int, ct string) {
			defer wg.Done()
			claims[idx] = v.verifyClaim(ctx, ct)
		}(i, claimText)
	}
	wg.Wait()

	return models.FactCheckResult{
		Claims:             claims,
		OverallCredibility: OverallCredibility(claims),
		BiasDetection:      DetectBias(text),
	}
}

type claimVerdict struct {
	Status  string `json:"status"`
	Sources []struct {
		Title            string `json:"title"`
		URL              string `json:"url"`
		CredibilityScore int    `json:"credibilityScore"`
	} `json:"sources"`
	Explanation string `json:"explanation"`
}

// verifyClaim verifies one claim. Any failure, transport or parse, collapses
// to the unverifiable fallback for this claim only.
func (v *Verifier) verifyClaim(ctx context.Context, claimText string) models.Claim {
	fallback := models.Claim{
		Text:        claimText,
		Status:      models.StatusUnverifiable,
		Sources:     []models.Source{},
		Explanation: fallbackExplanation,
	}

	userPrompt := fmt.Sprintf("Verify this claim: %q", claimText)
	opts := llm.CompletionOptions{Temperature: v.temperature}

	response, err := v.provider.CompleteWithSystem(ctx, verifySystemPrompt, userPrompt, opts)
	if err != nil {
		log.Warn().Err(err).Str("claim", truncate(claimText, 50)).Msg("Claim verification call failed")
		return fallback
	}

	verdict, err := parseVerdict(response)
	if err != nil {
		log.Warn().Err(err).Str("claim", truncate(claimText, 50)).Msg("Claim verification response unparseable")
		return fallback
	}

	status := models.ClaimStatus(verdict.Status)
	if _, known := statusWeights[status]; !known {
		status = models.StatusUnverifiable
	}

	sources := make([]models.Source, 0, len(verdict.Sources))
	for _, s := range verdict.Sources {
		sources = append(sources, models.Source{
			Title:            s.Title,
			URL:              s.URL,
			CredibilityScore: models.ClampScore(s.CredibilityScore),
		})
	}

	explanation := verdict.Explanation
	if explanation == "" {
		explanation = fallbackExplanation
	}

	return models.Claim{
		Text:        claimText,
		Status:      status,
		Sources:     sources,
		Explanation: explanation,
	}
}

var fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseVerdict decodes the model's JSON verdict, tolerating markdown fences
// and surrounding prose.
func parseVerdict(response string) (*claimVerdict, error) {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		if matches := fenceRe.FindStringSubmatch(response); len(matches) > 1 {
			response = matches[1]
		}
	}

	var verdict claimVerdict
	if err := json.Unmarshal([]byte(response), &verdict); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON found in response")
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &verdict); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	return &verdict, nil
}

// OverallCredibility is the rounded status-weighted mean over the claims.
// Zero claims is defined as the neutral 50.
func OverallCredibility(claims []models.Claim) int {
	if len(claims) == 0 {
		return neutralWeight
	}

	var sum int
	for _, c := range claims {
		w, ok := statusWeights[c.Status]
		if !ok {
			w = neutralWeight
		}
		sum += w
	}

	mean := float64(sum) / float64(len(claims))
	return models.ClampScore(int(math.Round(mean)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
