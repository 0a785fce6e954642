// Package research queries a real-time research service for corroborating
// facts and sources.
package research

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/veriscope/veriscope/internal/llm"
	"github.com/veriscope/veriscope/internal/models"
)

const researchSystemPrompt = "You are a research assistant that provides comprehensive, factual information " +
	"with credible sources. Always cite sources and provide real-time data."

// degradedSummary is the canned summary of the fixed fallback result.
const degradedSummary = "Unable to fetch real-time information at this moment."

// queryLimit caps how much of the input is embedded in the research query.
const queryLimit = 500

// Augmenter runs one research query per analysis and parses the free-form
// answer into structured fields.
type Augmenter struct {
	provider    llm.Provider
	temperature float64
	maxTokens   int
	credRand    func() int
}

// NewAugmenter creates an augmenter backed by the given model provider.
func NewAugmenter(provider llm.Provider, temperature float64, maxTokens int) *Augmenter {
	return &Augmenter{
		provider:    provider,
		temperature: temperature,
		maxTokens:   maxTokens,
		// Cosmetic source-credibility filler in [85,99]. Not a measured
		// score; it is never fed into any aggregate.
		credRand: func() int { return 85 + rand.Intn(15) },
	}
}

// Research queries the service for category-tailored background. It never
// fails outward: any error yields the fixed degraded result.
func (a *Augmenter) Research(ctx context.Context, text string, category models.Category) models.ResearchResult {
	query := buildQuery(text, category)

	opts := llm.CompletionOptions{
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}

	response, err := a.provider.CompleteWithSystem(ctx, researchSystemPrompt, query, opts)
	if err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("Research call failed, returning degraded result")
		return Degraded()
	}

	return parseResponse(response, a.credRand)
}

// Degraded is the fixed fallback result: structurally identical to a full
// one so downstream code needs no special case.
func Degraded() models.ResearchResult {
	return models.ResearchResult{
		Summary:        degradedSummary,
		KeyFacts:       []string{},
		Sources:        []models.Source{},
		ExpertInsights: nil,
	}
}

// buildQuery wraps up to queryLimit characters of the input in a
// category-tailored prompt.
func buildQuery(text string, category models.Category) string {
	runes := []rune(text)
	if len(runes) > queryLimit {
		text = string(runes[:queryLimit])
	}

	switch category {
	case models.CategoryVideo:
		return fmt.Sprintf("Research and provide comprehensive factual information about the following video content. "+
			"Include key facts, verify any claims, and provide credible sources: %q", text)
	case models.CategoryImage:
		return fmt.Sprintf("Research and provide comprehensive factual information about the following image content. "+
			"Include key facts, verify any claims, and provide credible sources: %q", text)
	case models.CategoryNews:
		return fmt.Sprintf("Research and fact-check the following news content. "+
			"Provide verified facts, identify any misinformation, and cite credible news sources: %q", text)
	default:
		return fmt.Sprintf("Research and provide comprehensive factual information about the following content. "+
			"Include key facts, verify any claims, and provide credible sources: %q", text)
	}
}
