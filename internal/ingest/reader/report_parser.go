package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/utils"
)

var (
	sectionHeadingRe = regexp.MustCompile(`^#{0,4}\s*\d+\.\s+([A-Z]{1,5})\s*[-–—]\s*(.+?)\s*$`)
	promoterRes      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)promoted\s+by\s+([^\n.,(]+)`),
		regexp.MustCompile(`(?i)promoter\s*[:\-]\s*([^\n(]+)`),
		regexp.MustCompile(`(?i)newsletter\s*[:\-]\s*([^\n(]+)`),
	}
	riskScoreRe  = regexp.MustCompile(`(?i)risk\s*score\s*[:\-]?\s*([0-9]+(?:\.[0-9]+)?)`)
	currPriceRe  = regexp.MustCompile(`(?i)current\s*price\s*[:\-]?\s*\$?([0-9]+(?:\.[0-9]+)?)`)
	promPriceRe  = regexp.MustCompile(`(?i)promot(?:ion|ed)\s*(?:at\s*)?price\s*[:\-]?\s*\$?([0-9]+(?:\.[0-9]+)?)`)
	peakPriceRe  = regexp.MustCompile(`(?i)peak\s*price\s*[:\-]?\s*\$?([0-9]+(?:\.[0-9]+)?)`)
	gainRe       = regexp.MustCompile(`(?i)gain\s*[:\-]?\s*([+-]?[0-9]+(?:\.[0-9]+)?)\s*%`)
	urlRe        = regexp.MustCompile(`https?://[^\s)\]>"']+`)
	tickerCellRe = regexp.MustCompile(`^\*{0,2}\$?([A-Z]{1,5})\*{0,2}$`)
	percentRe    = regexp.MustCompile(`([+-]?[0-9]+(?:\.[0-9]+)?)\s*%`)
	numberRe     = regexp.MustCompile(`^\$?([0-9]+(?:\.[0-9]+)?)$`)
)

var pumpDumpPhrases = []string{
	"pump and dump confirmed",
	"pump-and-dump confirmed",
	"confirmed pump and dump",
	"missing disclosure",
	"no disclosure",
	"undisclosed compensation",
}

// FindLatestReport returns the most recent markdown report in dir whose name
// contains "SOCIAL" or "PRESS". Filenames embed an ISO date, so the
// lexicographically last name is the newest.
func FindLatestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read report dir %s: %w", dir, err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			continue
		}
		upper := strings.ToUpper(name)
		if strings.Contains(upper, "SOCIAL") || strings.Contains(upper, "PRESS") {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoReportFile, dir)
	}
	sort.Strings(matches)
	return filepath.Join(dir, matches[len(matches)-1]), nil
}

// ReportParser is a best-effort extractor over semi-structured markdown
// reports. Heuristics that do not match degrade to "no match"; parsing never
// fails outright.
type ReportParser struct {
	logger *logger.Logger
}

// NewReportParser creates a ReportParser.
func NewReportParser(log *logger.Logger) *ReportParser {
	return &ReportParser{logger: log}
}

// Parse extracts promotion evidence from one markdown report. The report date
// comes from the filename's embedded ISO date, falling back to now.
func (p *ReportParser) Parse(filename string, content []byte, now time.Time) *dto.SocialMediaReport {
	report := &dto.SocialMediaReport{
		ReportDate: utils.DateOnly(now),
		SourceFile: filepath.Base(filename),
	}
	if d, ok := DateFromFilename(filepath.Base(filename)); ok {
		report.ReportDate = d
	}

	text := string(content)
	report.Promoter = extractPromoter(text)

	lines := strings.Split(text, "\n")
	report.PromotedStocks = p.extractSections(lines)
	report.ActivePumps = p.extractActivePumps(lines)

	seen := make(map[string]bool)
	for _, s := range report.PromotedStocks {
		seen[s.Symbol] = true
	}
	for _, a := range report.ActivePumps {
		seen[a.Symbol] = true
	}
	report.PlatformMentions = p.extractMentions(lines, seen)

	return report
}

func extractPromoter(text string) string {
	for _, re := range promoterRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractSections pulls structured per-stock sections with headings of the
// form "N. TICKER - Name".
func (p *ReportParser) extractSections(lines []string) []dto.PromotedStockEvidence {
	var stocks []dto.PromotedStockEvidence

	var current *dto.PromotedStockEvidence
	var body strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		fillSectionFields(current, body.String())
		stocks = append(stocks, *current)
		current = nil
		body.Reset()
	}

	for _, line := range lines {
		if m := sectionHeadingRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			current = &dto.PromotedStockEvidence{Symbol: m[1], Name: strings.TrimSpace(m[2])}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()

	return stocks
}

func fillSectionFields(stock *dto.PromotedStockEvidence, body string) {
	if m := riskScoreRe.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			stock.RiskScore = v
		}
	}
	if m := currPriceRe.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			stock.CurrentPrice = utils.ToPointer(v)
		}
	}
	if m := promPriceRe.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			stock.PromotionPrice = utils.ToPointer(v)
		}
	}
	if m := peakPriceRe.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			stock.PeakPrice = utils.ToPointer(v)
		}
	}
	if m := gainRe.FindStringSubmatch(body); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			stock.GainPct = utils.ToPointer(v)
		}
	}
	stock.EvidenceLinks = urlRe.FindAllString(body, -1)

	lower := strings.ToLower(body)
	for _, phrase := range pumpDumpPhrases {
		if strings.Contains(lower, phrase) {
			stock.PumpDumpConfirmed = true
			break
		}
	}
}

// extractActivePumps parses a ticker/score/price/gain table of tickers still
// rising with no detected drop.
func (p *ReportParser) extractActivePumps(lines []string) []dto.ActivePumpEntry {
	var pumps []dto.ActivePumpEntry

	cols := map[string]int{}
	for _, line := range lines {
		cells := tableCells(line)
		if cells == nil {
			cols = map[string]int{}
			continue
		}

		if headerCols := matchPumpHeader(cells); headerCols != nil {
			cols = headerCols
			continue
		}
		if len(cols) == 0 {
			continue
		}
		if isTableRule(cells) {
			continue
		}
		if strings.Contains(strings.ToLower(line), "drop") {
			continue
		}

		entry, ok := parsePumpRow(cells, cols)
		if ok {
			pumps = append(pumps, entry)
		}
	}

	return pumps
}

func matchPumpHeader(cells []string) map[string]int {
	cols := map[string]int{}
	for i, c := range cells {
		switch {
		case strings.Contains(strings.ToLower(c), "ticker"), strings.Contains(strings.ToLower(c), "symbol"):
			cols["ticker"] = i
		case strings.Contains(strings.ToLower(c), "score"):
			cols["score"] = i
		case strings.Contains(strings.ToLower(c), "price"):
			cols["price"] = i
		case strings.Contains(strings.ToLower(c), "gain"):
			cols["gain"] = i
		}
	}
	if _, ok := cols["ticker"]; !ok {
		return nil
	}
	if _, ok := cols["gain"]; !ok {
		return nil
	}
	return cols
}

func parsePumpRow(cells []string, cols map[string]int) (dto.ActivePumpEntry, bool) {
	var entry dto.ActivePumpEntry

	i, ok := cols["ticker"]
	if !ok || i >= len(cells) {
		return entry, false
	}
	m := tickerCellRe.FindStringSubmatch(cells[i])
	if m == nil {
		return entry, false
	}
	entry.Symbol = m[1]

	if i, ok := cols["score"]; ok && i < len(cells) {
		if m := numberRe.FindStringSubmatch(cells[i]); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				entry.RiskScore = v
			}
		}
	}
	if i, ok := cols["price"]; ok && i < len(cells) {
		if m := numberRe.FindStringSubmatch(cells[i]); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				entry.CurrentPrice = utils.ToPointer(v)
			}
		}
	}
	if i, ok := cols["gain"]; ok && i < len(cells) {
		if m := percentRe.FindStringSubmatch(cells[i]); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				entry.GainPct = utils.ToPointer(v)
			}
		}
	}

	return entry, true
}

// extractMentions scans every remaining markdown table for ticker+activity
// rows not already captured, classifying the platform by substring.
func (p *ReportParser) extractMentions(lines []string, seen map[string]bool) []dto.PlatformMention {
	var mentions []dto.PlatformMention

	for _, line := range lines {
		cells := tableCells(line)
		if len(cells) < 2 || isTableRule(cells) {
			continue
		}
		m := tickerCellRe.FindStringSubmatch(cells[0])
		if m == nil || seen[m[1]] {
			continue
		}
		activity := strings.TrimSpace(strings.Join(cells[1:], " "))
		if activity == "" {
			continue
		}
		mentions = append(mentions, dto.PlatformMention{
			Symbol:   m[1],
			Platform: classifyPlatform(activity),
			Activity: activity,
		})
		seen[m[1]] = true
	}

	return mentions
}

func classifyPlatform(activity string) string {
	lower := strings.ToLower(activity)
	switch {
	case strings.Contains(lower, "stocktwits"):
		return "STOCKTWITS"
	case strings.Contains(lower, "reddit"):
		return "REDDIT"
	default:
		return "OTHER"
	}
}

// tableCells splits a markdown table row into trimmed cells, or returns nil
// when the line is not a table row.
func tableCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return nil
	}
	trimmed = strings.Trim(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

func isTableRule(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			continue
		}
		if strings.Trim(c, ":- ") != "" {
			return false
		}
	}
	return true
}
