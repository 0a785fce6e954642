// Package models defines the core data structures used throughout the application.
package models

import (
	"encoding/json"
	"math"
)

// Category identifies the kind of content being verified.
type Category string

const (
	CategoryVideo  Category = "video"
	CategoryImage  Category = "image"
	CategoryNews   Category = "news"
	CategoryTryout Category = "tryout"
)

// InputMode identifies how the content was supplied.
type InputMode string

const (
	ModeUpload InputMode = "upload"
	ModeText   InputMode = "text"
	ModeURL    InputMode = "url"
)

// ClaimStatus represents the result of verifying a single claim.
type ClaimStatus string

const (
	StatusVerified      ClaimStatus = "verified"
	StatusPartiallyTrue ClaimStatus = "partially-true"
	StatusFalse         ClaimStatus = "false"
	StatusUnverifiable  ClaimStatus = "unverifiable"
)

// Model attribution thresholds, shared with the presentation layer's
// credibility coloring. Applied to the 0-100 score scale.
const (
	ThresholdHigh   = 70
	ThresholdMedium = 40
)

// MaxTextLength is the upper bound for pasted text input, in characters.
const MaxTextLength = 10000

// Upload size ceilings, checked before any network call.
const (
	MaxImageBytes = 10 * 1024 * 1024
	MaxVideoBytes = 100 * 1024 * 1024
)

// AnalysisRequest is one user-submitted verification request. It is consumed
// exactly once by the pipeline and never persisted.
type AnalysisRequest struct {
	Category Category  `json:"category"`
	Mode     InputMode `json:"mode"`
	Text     string    `json:"text,omitempty"`
	URL      string    `json:"url,omitempty"`
	Upload   *Upload   `json:"-"`
}

// Upload carries an uploaded file's metadata and content.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// SentenceScore is the per-sentence AI probability, on the 0-100 scale.
type SentenceScore struct {
	Sentence string `json:"sentence"`
	Score    int    `json:"score"`
}

// DetectionMetrics holds the derived display metrics of an AI detection run.
type DetectionMetrics struct {
	Perplexity float64    `json:"perplexity"`
	Burstiness Burstiness `json:"burstiness"`
}

// Burstiness is a float that renders as the string "N/A" when no
// sentence-level scores were available to compute it.
type Burstiness struct {
	Valid bool
	Value float64
}

// MarshalJSON renders the value as a number, or "N/A" when not computed.
func (b Burstiness) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return json.Marshal("N/A")
	}
	return json.Marshal(b.Value)
}

// UnmarshalJSON accepts either a number or the "N/A" sentinel.
func (b *Burstiness) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Valid = false
		b.Value = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	b.Valid = true
	b.Value = f
	return nil
}

// AIDetectionResult is the normalized output of the AI-content detector.
// Immutable after creation.
type AIDetectionResult struct {
	OverallScore     int              `json:"overall_score"`
	ModelAttribution string           `json:"model_attribution"`
	SentenceScores   []SentenceScore  `json:"sentence_scores"`
	Analysis         DetectionMetrics `json:"analysis"`
}

// Source is a reference backing a claim or research finding.
type Source struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	Snippet          string `json:"snippet,omitempty"`
	CredibilityScore int    `json:"credibility_score"`
}

// Claim is one factual assertion extracted from the input, with its
// verification outcome.
type Claim struct {
	Text        string      `json:"text"`
	Status      ClaimStatus `json:"status"`
	Sources     []Source    `json:"sources"`
	Explanation string      `json:"explanation"`
}

// BiasDetection flags coarse bias signals found in the full input text.
type BiasDetection struct {
	Detected bool     `json:"detected"`
	Types    []string `json:"types"`
}

// FactCheckResult aggregates per-claim verification outcomes.
// OverallCredibility is always derived from the claim statuses.
type FactCheckResult struct {
	Claims             []Claim       `json:"claims"`
	OverallCredibility int           `json:"overall_credibility"`
	BiasDetection      BiasDetection `json:"bias_detection"`
}

// ResearchResult holds corroborating real-time research. A degraded result
// (service failure) is structurally identical: empty facts and sources, a
// canned summary, nil insights.
type ResearchResult struct {
	Summary        string   `json:"summary"`
	KeyFacts       []string `json:"key_facts"`
	Sources        []Source `json:"sources"`
	ExpertInsights *string  `json:"expert_insights"`
}

// AnalysisReport is the aggregate root produced once per successful analysis.
type AnalysisReport struct {
	AIDetection     AIDetectionResult `json:"ai_detection"`
	FactCheck       FactCheckResult   `json:"fact_check"`
	Research        ResearchResult    `json:"research"`
	OriginalContent string            `json:"original_content"`
	Category        Category          `json:"category"`
	Timestamp       string            `json:"timestamp"`
	Verdict         ReportVerdict     `json:"verdict"`
}

// ReportVerdict carries the derived headline strings so the presentation
// layer does not re-derive threshold logic.
type ReportVerdict struct {
	AIDetection string `json:"ai_detection"`
	Credibility string `json:"credibility"`
}

// ClampScore bounds a 0-100 integer score.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RoundScore converts a [0,1] fraction to a clamped 0-100 integer.
func RoundScore(fraction float64) int {
	return ClampScore(int(math.Round(fraction * 100)))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
