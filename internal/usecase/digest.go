package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"BlogCurator/internal/ports"
)

// DigestJob periodically ingests the newest articles and announces what was
// stored. Failures are logged, never fatal; the next tick tries again.
type DigestJob struct {
	driver   ports.Scheduler
	ingestor *Ingestor
	notifier ports.Notifier
	limit    int
	logger   *slog.Logger
}

// NewDigestJob wires the scheduler driver with the ingest pipeline.
func NewDigestJob(driver ports.Scheduler, ingestor *Ingestor, notifier ports.Notifier, limit int, logger *slog.Logger) *DigestJob {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = 5
	}
	return &DigestJob{
		driver:   driver,
		ingestor: ingestor,
		notifier: notifier,
		limit:    limit,
		logger:   logger,
	}
}

// Start registers the recurring job with the driver.
func (d *DigestJob) Start(ctx context.Context) error {
	if d.driver == nil || d.ingestor == nil {
		return nil
	}
	return d.driver.Start(ctx, func(trigger time.Time) {
		d.run(ctx, trigger)
	})
}

// Stop tears down the underlying driver.
func (d *DigestJob) Stop(ctx context.Context) error {
	if d.driver == nil {
		return nil
	}
	return d.driver.Stop(ctx)
}

func (d *DigestJob) run(ctx context.Context, trigger time.Time) {
	report, err := d.ingestor.ScrapeAndStoreNewest(ctx, d.limit)
	if err != nil {
		d.logger.Error("digest ingest failed", "error", err)
		return
	}

	d.logger.Info("digest ingest finished",
		"trigger", trigger.Format(time.RFC3339),
		"scraped", report.ScrapedCount,
		"stored", report.StoredCount)

	if d.notifier == nil || report.StoredCount == 0 {
		return
	}

	if err := d.notifier.PublishDigest(ctx, digestMessage(report)); err != nil {
		d.logger.Warn("digest notification failed", "error", err)
	}
}

func digestMessage(report ScrapeReport) string {
	message := fmt.Sprintf("Stored %d new article(s):\n", report.StoredCount)
	for _, article := range report.Articles {
		message += fmt.Sprintf("- %s\n%s\n", article.Title, article.URL)
	}
	return message
}
