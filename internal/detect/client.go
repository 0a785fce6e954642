// Package detect provides the AI-generated-content detection client.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/veriscope/veriscope/internal/config"
	"github.com/veriscope/veriscope/internal/models"
)

// Client calls the AI-content-detection service and normalizes its response.
// Detection is load-bearing for the pipeline, so errors propagate to the
// caller instead of degrading into mock data.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a detection client. The API key is injected once here.
func NewClient(cfg *config.DetectionConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI detection API key is required")
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type detectRequest struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type detectResponse struct {
	Score          float64 `json:"score"`
	SentenceScores []struct {
		Sentence string  `json:"sentence"`
		Score    float64 `json:"score"`
	} `json:"sentence_scores"`
}

// Detect sends text to the detection service and returns the normalized
// result. The service reports probabilities in [0,1]; everything downstream
// works on the 0-100 integer scale.
func (c *Client) Detect(ctx context.Context, text string) (models.AIDetectionResult, error) {
	body, err := json.Marshal(detectRequest{Key: c.apiKey, Text: text})
	if err != nil {
		return models.AIDetectionResult{}, fmt.Errorf("failed to encode detection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return models.AIDetectionResult{}, fmt.Errorf("failed to build detection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.AIDetectionResult{}, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.AIDetectionResult{}, fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}

	var dr detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return models.AIDetectionResult{}, fmt.Errorf("failed to decode detection response: %w", err)
	}

	return Normalize(dr.Score, toSentenceFractions(dr)), nil
}

type sentenceFraction struct {
	sentence string
	score    float64
}

func toSentenceFractions(dr detectResponse) []sentenceFraction {
	out := make([]sentenceFraction, len(dr.SentenceScores))
	for i, s := range dr.SentenceScores {
		out[i] = sentenceFraction{sentence: s.Sentence, score: s.Score}
	}
	return out
}

// Normalize maps the service's fractional scores into the fixed result shape:
// scores rounded onto [0,100], model attribution from the shared thresholds,
// perplexity and burstiness as derived display metrics.
func Normalize(score float64, sentences []sentenceFraction) models.AIDetectionResult {
	sentenceScores := make([]models.SentenceScore, len(sentences))
	for i, s := range sentences {
		sentenceScores[i] = models.SentenceScore{
			Sentence: s.sentence,
			Score:    models.RoundScore(s.score),
		}
	}

	return models.AIDetectionResult{
		OverallScore:     models.RoundScore(score),
		ModelAttribution: attributeModel(score),
		SentenceScores:   sentenceScores,
		Analysis: models.DetectionMetrics{
			Perplexity: models.Round1(15 + score*50),
			Burstiness: burstiness(sentences),
		},
	}
}

// attributeModel maps the overall fraction onto a model family. The 0.70 and
// 0.40 cut points are the fractional forms of ThresholdHigh/ThresholdMedium.
func attributeModel(score float64) string {
	switch {
	case score > float64(models.ThresholdHigh)/100:
		return "GPT-4"
	case score > float64(models.ThresholdMedium)/100:
		return "GPT-3.5"
	default:
		return "Human"
	}
}

// burstiness is 100 x mean((fraction - 0.5)^2) over the sentence scores, a
// variance-from-midpoint measure. Not computable without sentence scores.
func burstiness(sentences []sentenceFraction) models.Burstiness {
	if len(sentences) == 0 {
		return models.Burstiness{}
	}
	var sum float64
	for _, s := range sentences {
		d := s.score - 0.5
		sum += d * d
	}
	return models.Burstiness{
		Valid: true,
		Value: models.Round1(sum / float64(len(sentences)) * 100),
	}
}
