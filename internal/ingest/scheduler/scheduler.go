package scheduler

import (
	"context"

	"scamdunk-ingest/internal/ingest/service"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the daily evaluation and social report ingestions on a cron
// spec, for deployments that prefer a long-running process over system cron.
type Scheduler struct {
	cron     *cron.Cron
	daily    service.DailyIngestionService
	social   service.SocialIngestionService
	cronSpec string
	logger   *logger.Logger
}

// New creates a Scheduler.
func New(daily service.DailyIngestionService, social service.SocialIngestionService, cronSpec string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		daily:    daily,
		social:   social,
		cronSpec: cronSpec,
		logger:   log,
	}
}

// Start registers the ingestion job and blocks until the context is done.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Ingestion scheduler started", logger.StringField("cron", s.cronSpec))
	s.cron.Start()

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Ingestion scheduler stopped")
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	date := utils.FormatDate(utils.TodayUTC())
	s.logger.Info("Scheduled ingestion firing", logger.StringField("date", date))

	if report, err := s.daily.Run(ctx, service.DailyIngestionOptions{Date: date}); err != nil {
		s.logger.Error("Scheduled daily ingestion failed", logger.ErrorField(err))
	} else {
		s.logger.Info("Scheduled daily ingestion finished",
			logger.IntField("processed", report.Processed),
			logger.IntField("errors", report.Errors))
	}

	if report, err := s.social.Run(ctx, service.SocialIngestionOptions{}); err != nil {
		s.logger.Error("Scheduled social ingestion failed", logger.ErrorField(err))
	} else {
		s.logger.Info("Scheduled social ingestion finished",
			logger.IntField("promoted", report.PromotedStocks),
			logger.IntField("errors", report.Errors))
	}
}
