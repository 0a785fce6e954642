// Package pipeline orchestrates the complete content-verification flow.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/veriscope/veriscope/internal/models"
)

// TextExtractor normalizes a request into plain analyzable text.
type TextExtractor interface {
	Extract(ctx context.Context, req *models.AnalysisRequest) (string, error)
}

// Detector runs AI-content detection. Detection is load-bearing: its error
// aborts the analysis.
type Detector interface {
	Detect(ctx context.Context, text string) (models.AIDetectionResult, error)
}

// FactChecker verifies the text's claims. Failures are absorbed internally,
// so the step never errors.
type FactChecker interface {
	Verify(ctx context.Context, text string) models.FactCheckResult
}

// Researcher gathers corroborating real-time research. Failures degrade, so
// the step never errors.
type Researcher interface {
	Research(ctx context.Context, text string, category models.Category) models.ResearchResult
}

// Engine coordinates one analysis: extraction, then the three independent
// analyzers concurrently, then report assembly.
type Engine struct {
	extractor TextExtractor
	detector  Detector
	checker   FactChecker
	research  Researcher
	now       func() time.Time
}

// NewEngine creates an engine with the given collaborators.
func NewEngine(extractor TextExtractor, detector Detector, checker FactChecker, research Researcher) *Engine {
	return &Engine{
		extractor: extractor,
		detector:  detector,
		checker:   checker,
		research:  research,
		now:       time.Now,
	}
}

// Run executes one analysis request through its full state machine. A fresh
// run instance backs every call; nothing is shared across requests.
func (e *Engine) Run(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisReport, error) {
	r := newRun()
	started := e.now()

	log.Info().
		Str("run_id", r.id).
		Str("category", string(req.Category)).
		Str("mode", string(req.Mode)).
		Msg("Analysis started")

	r.advance(stateExtracting)
	text, err := e.extractor.Extract(ctx, req)
	if err != nil {
		r.advance(stateFailed)
		log.Warn().Str("run_id", r.id).Err(err).Msg("Extraction failed")
		return nil, err
	}

	r.advance(stateAnalyzing)

	// The three analyzers are independent once the text exists; fan out and
	// wait for all of them. Only the detector can fail the run.
	var (
		wg         sync.WaitGroup
		detection  models.AIDetectionResult
		detectErr  error
		factCheck  models.FactCheckResult
		researched models.ResearchResult
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		detection, detectErr = e.detector.Detect(ctx, text)
	}()
	go func() {
		defer wg.Done()
		factCheck = e.checker.Verify(ctx, text)
	}()
	go func() {
		defer wg.Done()
		researched = e.research.Research(ctx, text, req.Category)
	}()
	wg.Wait()

	if detectErr != nil {
		r.advance(stateFailed)
		log.Error().Str("run_id", r.id).Err(detectErr).Msg("AI detection failed")
		return nil, models.NewServiceError("AI detection failed. Please try again.", detectErr)
	}

	report := &models.AnalysisReport{
		AIDetection:     detection,
		FactCheck:       factCheck,
		Research:        researched,
		OriginalContent: originalContent(req, text),
		Category:        req.Category,
		Timestamp:       e.now().UTC().Format(time.RFC3339),
		Verdict: models.ReportVerdict{
			AIDetection: AIVerdict(detection.OverallScore),
			Credibility: CredibilityVerdict(factCheck.OverallCredibility),
		},
	}

	r.advance(stateComplete)
	log.Info().
		Str("run_id", r.id).
		Int("ai_score", detection.OverallScore).
		Int("credibility", factCheck.OverallCredibility).
		Int("claims", len(factCheck.Claims)).
		Dur("duration", e.now().Sub(started)).
		Msg("Analysis complete")

	return report, nil
}

// originalContent is what the report echoes back as the submitted content:
// the text itself, the URL, or a description of the uploaded file.
func originalContent(req *models.AnalysisRequest, extracted string) string {
	switch req.Mode {
	case models.ModeURL:
		return req.URL
	case models.ModeUpload:
		if req.Upload != nil {
			return fmt.Sprintf("Analyzing %s: %s", req.Category, req.Upload.Filename)
		}
		return extracted
	default:
		return extracted
	}
}

// AIVerdict maps the detection score onto its headline string.
func AIVerdict(score int) string {
	switch {
	case score >= models.ThresholdHigh:
		return "Likely AI-Generated"
	case score >= models.ThresholdMedium:
		return "Possibly AI-Assisted"
	default:
		return "Likely Human-Written"
	}
}

// CredibilityVerdict maps the credibility score onto its headline string.
func CredibilityVerdict(score int) string {
	switch {
	case score >= models.ThresholdHigh:
		return "Highly Credible"
	case score >= models.ThresholdMedium:
		return "Moderately Credible"
	default:
		return "Low Credibility"
	}
}

// run states advance strictly forward; a state is never re-entered.
type runState int

const (
	stateIdle runState = iota
	stateExtracting
	stateAnalyzing
	stateComplete
	stateFailed
)

func (s runState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateExtracting:
		return "extracting"
	case stateAnalyzing:
		return "analyzing"
	case stateComplete:
		return "complete"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type run struct {
	id    string
	state runState
}

func newRun() *run {
	return &run{id: uuid.New().String(), state: stateIdle}
}

// advance moves the run forward. Backward or repeated transitions indicate a
// programming error and are logged and dropped rather than applied.
func (r *run) advance(next runState) {
	if next != stateFailed && next <= r.state {
		log.Error().
			Str("run_id", r.id).
			Str("from", r.state.String()).
			Str("to", next.String()).
			Msg("Invalid state transition ignored")
		return
	}
	r.state = next
}
