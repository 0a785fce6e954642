package extract

import (
	"context"
	"fmt"

	"github.com/veriscope/veriscope/internal/models"
)

// SimulatedTranscript is the stand-in video strategy: it describes the file
// instead of transcribing it. Replace with a speech-to-text backend in
// production.
type SimulatedTranscript struct{}

// ExtractText returns a placeholder transcript describing the video file.
func (SimulatedTranscript) ExtractText(_ context.Context, up *models.Upload) (string, error) {
	return fmt.Sprintf("Video analysis: %s. This is a simulated transcript extraction. "+
		"In production, use speech-to-text APIs to extract audio content from videos.", up.Filename), nil
}

// SimulatedOCR is the stand-in image strategy. Replace with an OCR backend in
// production.
type SimulatedOCR struct{}

// ExtractText returns a placeholder OCR result describing the image file.
func (SimulatedOCR) ExtractText(_ context.Context, up *models.Upload) (string, error) {
	return fmt.Sprintf("Image analysis: %s. This is a simulated OCR extraction. "+
		"In production, use OCR APIs to extract text from images.", up.Filename), nil
}

// DefaultStrategies returns the shipped per-category media strategies.
func DefaultStrategies() map[models.Category]MediaStrategy {
	return map[models.Category]MediaStrategy{
		models.CategoryVideo: SimulatedTranscript{},
		models.CategoryImage: SimulatedOCR{},
	}
}
