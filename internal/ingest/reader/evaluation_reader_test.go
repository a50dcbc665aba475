package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/utils"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalResults = `[{"symbol":"ABCD","name":"Acme","exchange":"OTC","riskLevel":"HIGH","totalScore":9,"signals":["x"],"signalSummary":"SPIKE_7D (+3)","evaluatedAt":"2026-08-22T21:00:00Z"}]`

func TestResolveExplicitPathWins(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	explicit := writeFile(t, dir, "daily-evaluation-2026-08-22.json", minimalResults)
	writeFile(t, dir, "daily-evaluation-2026-08-23.json", minimalResults)
	summary := writeFile(t, dir, "daily-summary-2026-08-22.json", `{}`)

	resultPath, summaryPath, err := r.Resolve("2026-08-23", explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, resultPath)
	assert.Equal(t, summary, summaryPath)
}

func TestResolveByDatePrefersPrimaryConvention(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	primary := writeFile(t, dir, "daily-evaluation-2026-08-22.json", minimalResults)
	writeFile(t, dir, "scan-results-2026-08-22.json", minimalResults)

	resultPath, summaryPath, err := r.Resolve("2026-08-22", "")
	require.NoError(t, err)
	assert.Equal(t, primary, resultPath)
	assert.Empty(t, summaryPath)
}

func TestResolveByDateFallbackConvention(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	fallback := writeFile(t, dir, "scan-results-2026-08-22.json", minimalResults)
	summary := writeFile(t, dir, "scan-summary-2026-08-22.json", `{}`)

	resultPath, summaryPath, err := r.Resolve("2026-08-22", "")
	require.NoError(t, err)
	assert.Equal(t, fallback, resultPath)
	assert.Equal(t, summary, summaryPath)
}

func TestResolveLatestAcrossConventions(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	writeFile(t, dir, "daily-evaluation-2026-08-20.json", minimalResults)
	writeFile(t, dir, "daily-evaluation-2026-08-21.json", minimalResults)
	latest := writeFile(t, dir, "scan-results-2026-08-22.json", minimalResults)

	resultPath, _, err := r.Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, latest, resultPath)
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	t.Run("empty directory", func(t *testing.T) {
		_, _, err := r.Resolve("", "")
		assert.ErrorIs(t, err, ErrNoEvaluationFile)
	})

	t.Run("no file for date", func(t *testing.T) {
		writeFile(t, dir, "daily-evaluation-2026-08-21.json", minimalResults)
		_, _, err := r.Resolve("2026-08-22", "")
		assert.ErrorIs(t, err, ErrNoEvaluationFile)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, _, err := r.Resolve("", filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, ErrNoEvaluationFile)
	})
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	resultPath := writeFile(t, dir, "daily-evaluation-2026-08-22.json", minimalResults)
	summaryPath := writeFile(t, dir, "daily-summary-2026-08-22.json",
		`{"totalStocks":120,"evaluatedStocks":118,"highRiskCount":4,"exchangeBreakdown":{"OTC":80,"NASDAQ":40}}`)

	results, summary, err := r.Load(resultPath, summaryPath)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ABCD", results[0].Symbol)
	assert.Equal(t, 9.0, results[0].TotalScore)

	require.NotNil(t, summary)
	assert.Equal(t, 120, summary.TotalStocks)
	assert.Equal(t, 80, summary.ExchangeBreakdown["OTC"])
}

func TestLoadMalformedResultsFails(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	resultPath := writeFile(t, dir, "daily-evaluation-2026-08-22.json", `{"not":"an array"`)

	_, _, err := r.Load(resultPath, "")
	assert.Error(t, err)
}

func TestLoadToleratesBrokenSummary(t *testing.T) {
	dir := t.TempDir()
	r := NewEvaluationReader(dir, logger.NewNop())

	resultPath := writeFile(t, dir, "daily-evaluation-2026-08-22.json", minimalResults)

	t.Run("missing summary file", func(t *testing.T) {
		results, summary, err := r.Load(resultPath, filepath.Join(dir, "gone.json"))
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Nil(t, summary)
	})

	t.Run("malformed summary file", func(t *testing.T) {
		summaryPath := writeFile(t, dir, "daily-summary-2026-08-22.json", `{broken`)
		results, summary, err := r.Load(resultPath, summaryPath)
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Nil(t, summary)
	})
}

func TestDateFromFilename(t *testing.T) {
	d, ok := DateFromFilename("daily-evaluation-2026-08-22.json")
	require.True(t, ok)
	assert.Equal(t, "2026-08-22", utils.FormatDate(d))

	_, ok = DateFromFilename("daily-evaluation-latest.json")
	assert.False(t, ok)
}
