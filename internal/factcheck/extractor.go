// Package factcheck extracts factual claims from text and verifies them
// against a claim-verification model service.
package factcheck

import (
	"regexp"
	"strings"
)

const (
	// maxClaims bounds the concurrent verification fan-out per request.
	// A cost and latency control, not a correctness requirement.
	maxClaims = 5
	// minClaimLength filters out fragments too short to verify.
	minClaimLength = 20
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// ExtractClaims splits text into candidate factual claims: sentences ending
// in terminal punctuation, trimmed, at least minClaimLength characters, at
// most maxClaims of them. Text with no sentence boundary at all is treated as
// a single claim regardless of length.
func ExtractClaims(text string) []string {
	sentences := sentenceRe.FindAllString(text, -1)
	if sentences == nil {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return []string{}
		}
		return []string{trimmed}
	}

	claims := make([]string, 0, maxClaims)
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) < minClaimLength {
			continue
		}
		claims = append(claims, s)
		if len(claims) == maxClaims {
			break
		}
	}
	return claims
}
