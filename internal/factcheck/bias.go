package factcheck

import (
	"strings"

	"github.com/veriscope/veriscope/internal/models"
)

// biasKeywords are fixed per category. The check is deliberately coarse:
// substring membership on the lower-cased text, no stemming, no word
// boundaries.
var biasKeywords = []struct {
	biasType string
	keywords []string
}{
	{"political", []string{"liberal", "conservative", "democrat", "republican"}},
	{"sensational", []string{"shocking", "unbelievable", "stunning", "outrageous"}},
}

// DetectBias flags a bias category when any of its keywords appears as a
// substring of the text.
func DetectBias(text string) models.BiasDetection {
	lower := strings.ToLower(text)

	types := []string{}
	for _, cat := range biasKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				types = append(types, cat.biasType)
				break
			}
		}
	}

	return models.BiasDetection{
		Detected: len(types) > 0,
		Types:    types,
	}
}
