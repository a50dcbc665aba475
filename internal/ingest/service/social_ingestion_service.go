package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"scamdunk-ingest/internal/entity"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/internal/ingest/reader"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/utils"
)

// maxStoredScore caps the promotion risk score for storage; a raw score at or
// above the cap also puts the ticker on the watchlist.
const maxStoredScore = 10

// SocialIngestionOptions controls one social report ingestion run.
type SocialIngestionOptions struct {
	// File is an explicit report path; empty means the latest report in the
	// configured directory.
	File string
	// DryRun performs parsing and classification but skips every write.
	DryRun bool
}

// SocialIngestionReport summarizes one social report run.
type SocialIngestionReport struct {
	ReportDate        time.Time
	SourceFile        string
	DryRun            bool
	PromotedStocks    int
	ActivePumps       int
	PlatformMentions  int
	StocksCreated     int
	WatchlistAdded    int
	WatchlistUpdated  int
	Errors            int
	Duration          time.Duration
}

// String renders the report for CLI output.
func (r *SocialIngestionReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report date:        %s\n", utils.FormatDate(r.ReportDate))
	fmt.Fprintf(&b, "Source file:        %s\n", r.SourceFile)
	if r.DryRun {
		fmt.Fprintf(&b, "Mode:               dry run (no writes)\n")
	}
	fmt.Fprintf(&b, "Promoted stocks:    %d\n", r.PromotedStocks)
	fmt.Fprintf(&b, "Active pumps:       %d\n", r.ActivePumps)
	fmt.Fprintf(&b, "Platform mentions:  %d\n", r.PlatformMentions)
	fmt.Fprintf(&b, "Stocks created:     %d\n", r.StocksCreated)
	fmt.Fprintf(&b, "Watchlist:          %d added, %d updated\n", r.WatchlistAdded, r.WatchlistUpdated)
	fmt.Fprintf(&b, "Errors:             %d\n", r.Errors)
	fmt.Fprintf(&b, "Duration:           %s\n", r.Duration.Round(time.Millisecond))
	return b.String()
}

// SocialIngestionService merges promoted-stock evidence from markdown reports
// into the stock timeline and maintains the promoted-stock watchlist.
type SocialIngestionService interface {
	Run(ctx context.Context, opts SocialIngestionOptions) (*SocialIngestionReport, error)
}

// NewSocialIngestionService creates a SocialIngestionService.
func NewSocialIngestionService(
	reportDir string,
	parser *reader.ReportParser,
	stockRepo repository.StockRepository,
	socialRepo repository.SocialMediaScanRepository,
	watchlistRepo repository.PromotedStockRepository,
	log *logger.Logger,
) SocialIngestionService {
	return &socialIngestionService{
		reportDir:     reportDir,
		parser:        parser,
		stockRepo:     stockRepo,
		socialRepo:    socialRepo,
		watchlistRepo: watchlistRepo,
		logger:        log,
	}
}

type socialIngestionService struct {
	reportDir     string
	parser        *reader.ReportParser
	stockRepo     repository.StockRepository
	socialRepo    repository.SocialMediaScanRepository
	watchlistRepo repository.PromotedStockRepository
	logger        *logger.Logger
}

func (s *socialIngestionService) Run(ctx context.Context, opts SocialIngestionOptions) (*SocialIngestionReport, error) {
	start := time.Now()

	path := opts.File
	if path == "" {
		var err error
		path, err = reader.FindLatestReport(s.reportDir)
		if err != nil {
			return nil, err
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	parsed := s.parser.Parse(path, content, time.Now())

	report := &SocialIngestionReport{
		ReportDate:       parsed.ReportDate,
		SourceFile:       path,
		DryRun:           opts.DryRun,
		PromotedStocks:   len(parsed.PromotedStocks),
		ActivePumps:      len(parsed.ActivePumps),
		PlatformMentions: len(parsed.PlatformMentions),
	}

	s.logger.InfoContext(ctx, "Starting social media ingestion",
		logger.StringField("report", path),
		logger.StringField("report_date", utils.FormatDate(parsed.ReportDate)),
		logger.IntField("promoted", report.PromotedStocks),
		logger.IntField("active_pumps", report.ActivePumps),
		logger.Field("dry_run", opts.DryRun))

	for _, evidence := range parsed.PromotedStocks {
		s.ingestPromoted(ctx, parsed, evidence, opts.DryRun, report)
	}
	for _, pump := range parsed.ActivePumps {
		s.ingestActivePump(ctx, parsed, pump, opts.DryRun, report)
	}
	for _, mention := range parsed.PlatformMentions {
		s.ingestMention(ctx, parsed, mention, opts.DryRun, report)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (s *socialIngestionService) ingestPromoted(ctx context.Context, parsed *dto.SocialMediaReport, evidence dto.PromotedStockEvidence, dryRun bool, report *SocialIngestionReport) {
	if dryRun {
		return
	}

	stock, err := s.resolveStock(ctx, evidence.Symbol, evidence.Name, report)
	if err != nil {
		report.Errors++
		s.logger.Error("Failed to resolve stock for promotion evidence",
			logger.ErrorField(err), logger.StringField("symbol", evidence.Symbol))
		return
	}

	rawScore := evidence.RiskScore
	scan := &entity.SocialMediaScan{
		StockID:           stock.ID,
		ScanDate:          parsed.ReportDate,
		Platform:          "NEWSLETTER",
		Promoter:          parsed.Promoter,
		RiskScore:         clampScore(rawScore),
		PromotionPrice:    evidence.PromotionPrice,
		PeakPrice:         evidence.PeakPrice,
		CurrentPrice:      evidence.CurrentPrice,
		GainPct:           evidence.GainPct,
		EvidenceLinks:     evidence.EvidenceLinks,
		PumpDumpConfirmed: evidence.PumpDumpConfirmed,
	}
	if err := s.socialRepo.Upsert(ctx, scan); err != nil {
		report.Errors++
		s.logger.Error("Failed to upsert social media scan",
			logger.ErrorField(err), logger.StringField("symbol", evidence.Symbol))
		return
	}

	if rawScore >= maxStoredScore {
		s.upsertWatchlist(ctx, evidence.Symbol, parsed.ReportDate, watchlistUpdate{
			entryPrice:   firstNonNil(evidence.PromotionPrice, evidence.CurrentPrice),
			entryScore:   clampScore(rawScore),
			currentPrice: evidence.CurrentPrice,
			peakPrice:    evidence.PeakPrice,
			gainPct:      evidence.GainPct,
			confirmed:    evidence.PumpDumpConfirmed,
		}, report)
	}
}

func (s *socialIngestionService) ingestActivePump(ctx context.Context, parsed *dto.SocialMediaReport, pump dto.ActivePumpEntry, dryRun bool, report *SocialIngestionReport) {
	if dryRun {
		return
	}

	stock, err := s.resolveStock(ctx, pump.Symbol, "", report)
	if err != nil {
		report.Errors++
		s.logger.Error("Failed to resolve stock for active pump",
			logger.ErrorField(err), logger.StringField("symbol", pump.Symbol))
		return
	}

	scan := &entity.SocialMediaScan{
		StockID:      stock.ID,
		ScanDate:     parsed.ReportDate,
		Platform:     "SCANNER",
		Promoter:     parsed.Promoter,
		RiskScore:    clampScore(pump.RiskScore),
		CurrentPrice: pump.CurrentPrice,
		GainPct:      pump.GainPct,
	}
	if err := s.socialRepo.Upsert(ctx, scan); err != nil {
		report.Errors++
		s.logger.Error("Failed to upsert active pump scan",
			logger.ErrorField(err), logger.StringField("symbol", pump.Symbol))
		return
	}

	if pump.RiskScore >= maxStoredScore {
		s.upsertWatchlist(ctx, pump.Symbol, parsed.ReportDate, watchlistUpdate{
			entryPrice:   pump.CurrentPrice,
			entryScore:   clampScore(pump.RiskScore),
			currentPrice: pump.CurrentPrice,
			gainPct:      pump.GainPct,
		}, report)
	}
}

func (s *socialIngestionService) ingestMention(ctx context.Context, parsed *dto.SocialMediaReport, mention dto.PlatformMention, dryRun bool, report *SocialIngestionReport) {
	if dryRun {
		return
	}

	stock, err := s.resolveStock(ctx, mention.Symbol, "", report)
	if err != nil {
		report.Errors++
		s.logger.Error("Failed to resolve stock for platform mention",
			logger.ErrorField(err), logger.StringField("symbol", mention.Symbol))
		return
	}

	scan := &entity.SocialMediaScan{
		StockID:  stock.ID,
		ScanDate: parsed.ReportDate,
		Platform: mention.Platform,
		Notes:    mention.Activity,
	}
	if err := s.socialRepo.Upsert(ctx, scan); err != nil {
		report.Errors++
		s.logger.Error("Failed to upsert platform mention",
			logger.ErrorField(err), logger.StringField("symbol", mention.Symbol))
	}
}

// resolveStock finds a stock by symbol, lazily creating a placeholder when a
// promoted ticker has never appeared in a daily evaluation.
func (s *socialIngestionService) resolveStock(ctx context.Context, symbol, name string, report *SocialIngestionReport) (*entity.Stock, error) {
	stock, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		return stock, nil
	}

	if name == "" {
		name = symbol
	}
	stock, created, err := s.stockRepo.Upsert(ctx, repository.StockUpsertInput{
		Symbol:   symbol,
		Name:     name,
		Exchange: "UNKNOWN",
	})
	if err != nil {
		return nil, err
	}
	if created {
		report.StocksCreated++
	}
	return stock, nil
}

type watchlistUpdate struct {
	entryPrice   *float64
	entryScore   float64
	currentPrice *float64
	peakPrice    *float64
	gainPct      *float64
	confirmed    bool
}

// upsertWatchlist records a promoted ticker's outcome. First sight for a
// (symbol, date) key records entry price and score; repeat sights refresh
// only the current price, gain and outcome.
func (s *socialIngestionService) upsertWatchlist(ctx context.Context, symbol string, reportDate time.Time, update watchlistUpdate, report *SocialIngestionReport) {
	outcome := entity.OutcomePumping
	if update.confirmed {
		outcome = entity.OutcomeDumped
	}

	existing, err := s.watchlistRepo.GetBySymbolAndDate(ctx, symbol, reportDate)
	if err != nil {
		report.Errors++
		s.logger.Error("Failed to query watchlist",
			logger.ErrorField(err), logger.StringField("symbol", symbol))
		return
	}

	if existing == nil {
		row := &entity.PromotedStockWatchlist{
			Symbol:       symbol,
			AddedDate:    reportDate,
			EntryPrice:   update.entryPrice,
			EntryScore:   update.entryScore,
			CurrentPrice: update.currentPrice,
			PeakPrice:    update.peakPrice,
			GainPct:      update.gainPct,
			Outcome:      outcome,
		}
		if err := s.watchlistRepo.Create(ctx, row); err != nil {
			report.Errors++
			s.logger.Error("Failed to add watchlist entry",
				logger.ErrorField(err), logger.StringField("symbol", symbol))
			return
		}
		report.WatchlistAdded++
		return
	}

	existing.CurrentPrice = update.currentPrice
	existing.GainPct = update.gainPct
	existing.Outcome = outcome
	if err := s.watchlistRepo.Save(ctx, existing); err != nil {
		report.Errors++
		s.logger.Error("Failed to update watchlist entry",
			logger.ErrorField(err), logger.StringField("symbol", symbol))
		return
	}
	report.WatchlistUpdated++
}

func clampScore(score float64) float64 {
	if score > maxStoredScore {
		return maxStoredScore
	}
	return score
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
