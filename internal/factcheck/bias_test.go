package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBiasSensational(t *testing.T) {
	t.Parallel()

	result := DetectBias("A shocking development in the markets today.")

	assert.True(t, result.Detected)
	assert.Equal(t, []string{"sensational"}, result.Types)
}

func TestDetectBiasPolitical(t *testing.T) {
	t.Parallel()

	result := DetectBias("The Republican proposal was rejected.")

	assert.True(t, result.Detected)
	assert.Equal(t, []string{"political"}, result.Types)
}

func TestDetectBiasBothCategories(t *testing.T) {
	t.Parallel()

	result := DetectBias("Shocking news about the Democrat campaign.")

	assert.True(t, result.Detected)
	assert.ElementsMatch(t, []string{"political", "sensational"}, result.Types)
}

func TestDetectBiasNone(t *testing.T) {
	t.Parallel()

	result := DetectBias("The weather was mild and unremarkable.")

	assert.False(t, result.Detected)
	assert.Empty(t, result.Types)
	assert.NotNil(t, result.Types)
}

func TestDetectBiasIsSubstringMatch(t *testing.T) {
	t.Parallel()

	// The check is deliberately coarse: no word boundaries.
	result := DetectBias("They sailed through stunningly calm waters.")

	assert.True(t, result.Detected)
	assert.Equal(t, []string{"sensational"}, result.Types)
}
