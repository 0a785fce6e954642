package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriscope/veriscope/internal/models"
)

func TestBeginCompleteStoresReport(t *testing.T) {
	t.Parallel()

	s := NewStore()
	token, err := s.Begin("sess")
	require.NoError(t, err)

	report := &models.AnalysisReport{Category: models.CategoryNews}
	assert.True(t, s.Complete("sess", token, report))
	assert.Same(t, report, s.Report("sess"))
}

func TestSecondConcurrentBeginRejected(t *testing.T) {
	t.Parallel()

	s := NewStore()
	_, err := s.Begin("sess")
	require.NoError(t, err)

	_, err = s.Begin("sess")
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	// A different session is unaffected.
	_, err = s.Begin("other")
	assert.NoError(t, err)
}

func TestResetOrphansInFlightRun(t *testing.T) {
	t.Parallel()

	s := NewStore()
	token, err := s.Begin("sess")
	require.NoError(t, err)

	s.Reset("sess")

	// The late result carries a stale token and is discarded.
	assert.False(t, s.Complete("sess", token, &models.AnalysisReport{}))
	assert.Nil(t, s.Report("sess"))

	// The session is free for a new run.
	_, err = s.Begin("sess")
	assert.NoError(t, err)
}

func TestNewRunSupersedesOldToken(t *testing.T) {
	t.Parallel()

	s := NewStore()
	oldToken, err := s.Begin("sess")
	require.NoError(t, err)

	s.Reset("sess")
	newToken, err := s.Begin("sess")
	require.NoError(t, err)

	newReport := &models.AnalysisReport{Category: models.CategoryImage}
	assert.True(t, s.Complete("sess", newToken, newReport))

	// The old run finishing late does not clobber the newer report.
	assert.False(t, s.Complete("sess", oldToken, &models.AnalysisReport{Category: models.CategoryVideo}))
	assert.Same(t, newReport, s.Report("sess"))
}

func TestFailClearsInFlight(t *testing.T) {
	t.Parallel()

	s := NewStore()
	token, err := s.Begin("sess")
	require.NoError(t, err)

	s.Fail("sess", token)

	assert.Nil(t, s.Report("sess"))
	_, err = s.Begin("sess")
	assert.NoError(t, err)
}

func TestReportUnknownSessionIsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewStore().Report("missing"))
}
