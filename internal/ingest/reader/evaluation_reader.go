package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/pkg/common"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/utils"
)

var (
	// ErrNoEvaluationFile is returned when no evaluation results file matches
	// the requested date or, with no date given, no file exists at all.
	ErrNoEvaluationFile = errors.New("no evaluation results file found")

	// ErrNoReportFile is returned when no social-media/press report exists.
	ErrNoReportFile = errors.New("no social media report file found")

	isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// EvaluationReader locates and parses daily evaluation result files and their
// optional companion summaries.
type EvaluationReader struct {
	dir    string
	logger *logger.Logger
}

// NewEvaluationReader creates an EvaluationReader rooted at dir.
func NewEvaluationReader(dir string, log *logger.Logger) *EvaluationReader {
	return &EvaluationReader{dir: dir, logger: log}
}

// Resolve finds the evaluation results file and its optional summary
// companion. An explicit path wins outright; an explicit date searches both
// filename conventions, primary first; with neither, the lexicographically
// latest matching file of either convention is used (embedded ISO dates make
// lexicographic order chronological). The returned summary path is empty when
// no companion exists.
func (r *EvaluationReader) Resolve(date, explicit string) (resultPath, summaryPath string, err error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", "", fmt.Errorf("%w: %s", ErrNoEvaluationFile, explicit)
		}
		if d, ok := DateFromFilename(filepath.Base(explicit)); ok {
			summaryPath = r.findSummary(filepath.Dir(explicit), utils.FormatDate(d))
		}
		return explicit, summaryPath, nil
	}

	if date != "" {
		for _, pattern := range []string{common.EvaluationFilePrimary, common.EvaluationFileFallback} {
			candidate := filepath.Join(r.dir, fmt.Sprintf(pattern, date))
			if _, err := os.Stat(candidate); err == nil {
				return candidate, r.findSummary(r.dir, date), nil
			}
		}
		return "", "", fmt.Errorf("%w for date %s in %s", ErrNoEvaluationFile, date, r.dir)
	}

	latest, err := r.latestMatch()
	if err != nil {
		return "", "", err
	}
	if d, ok := DateFromFilename(filepath.Base(latest)); ok {
		summaryPath = r.findSummary(r.dir, utils.FormatDate(d))
	}
	return latest, summaryPath, nil
}

// Load parses the evaluation file into per-symbol results and, when a summary
// path is given, the aggregate summary. Malformed JSON is an unrecoverable
// error; a missing or unreadable summary is tolerated and returned as nil.
func (r *EvaluationReader) Load(resultPath, summaryPath string) ([]dto.EvaluationResult, *dto.EvaluationSummary, error) {
	raw, err := os.ReadFile(resultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read evaluation file %s: %w", resultPath, err)
	}

	var results []dto.EvaluationResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, nil, fmt.Errorf("parse evaluation file %s: %w", resultPath, err)
	}

	var summary *dto.EvaluationSummary
	if summaryPath != "" {
		rawSummary, err := os.ReadFile(summaryPath)
		if err != nil {
			r.logger.Warn("Failed to read summary file, continuing without it",
				logger.StringField("path", summaryPath), logger.ErrorField(err))
			return results, nil, nil
		}
		summary = &dto.EvaluationSummary{}
		if err := json.Unmarshal(rawSummary, summary); err != nil {
			r.logger.Warn("Failed to parse summary file, continuing without it",
				logger.StringField("path", summaryPath), logger.ErrorField(err))
			return results, nil, nil
		}
	}

	return results, summary, nil
}

func (r *EvaluationReader) findSummary(dir, date string) string {
	for _, pattern := range []string{common.SummaryFilePrimary, common.SummaryFileFallback} {
		candidate := filepath.Join(dir, fmt.Sprintf(pattern, date))
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func (r *EvaluationReader) latestMatch() (string, error) {
	var matches []string
	for _, pattern := range []string{common.EvaluationFilePrimary, common.EvaluationFileFallback} {
		glob := filepath.Join(r.dir, fmt.Sprintf(pattern, "*"))
		found, err := filepath.Glob(glob)
		if err != nil {
			return "", fmt.Errorf("glob %s: %w", glob, err)
		}
		matches = append(matches, found...)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoEvaluationFile, r.dir)
	}
	sort.Slice(matches, func(i, j int) bool {
		return filepath.Base(matches[i]) < filepath.Base(matches[j])
	})
	return matches[len(matches)-1], nil
}

// DateFromFilename extracts the first embedded ISO date from a filename.
func DateFromFilename(name string) (time.Time, bool) {
	m := isoDateRe.FindString(name)
	if m == "" {
		return time.Time{}, false
	}
	d, err := utils.ParseDate(m)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
