// Package scheduler runs the weekly report job.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jiyunpark/mulog/internal/models"
	"github.com/jiyunpark/mulog/internal/report"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	reports   *report.Generator
	timezone  *time.Location
}

// New creates a new scheduler. The report generator may be nil when
// generative credentials are absent; the weekly job is skipped then.
func New(reports *report.Generator, timezone string) (*Scheduler, error) {
	tz, err := time.LoadLocation(timezone)
	if err != nil {
		tz = time.UTC
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(tz))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		reports:   reports,
		timezone:  tz,
	}, nil
}

// Start starts the scheduler and registers all jobs
func (s *Scheduler) Start() error {
	// Weekly report on Sunday at 08:00
	_, err := s.scheduler.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Sunday), gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(s.generateWeeklyReport),
		gocron.WithName("weekly-report"),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.Println("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) generateWeeklyReport() {
	log.Println("Running weekly report generation...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.generateWeekly(ctx)
}

// generateWeekly runs one weekly report pass. An empty period selects the
// trailing 7-day window and types the report weekly. A quiet week with too
// few records is normal, not a fault.
func (s *Scheduler) generateWeekly(ctx context.Context) {
	if s.reports == nil {
		log.Println("Weekly report skipped: generative service not configured")
		return
	}

	rep, err := s.reports.Generate(ctx, "", "")
	if err != nil {
		var ae *models.AppError
		if errors.As(err, &ae) && ae.Kind == models.KindInsufficientData {
			log.Println("Weekly report skipped: not enough intake records this week")
			return
		}
		log.Printf("Error generating weekly report: %v", err)
		return
	}

	log.Printf("Generated weekly report %s for %s..%s", rep.ID, rep.PeriodStart, rep.PeriodEnd)
}

// GenerateWeeklyNow triggers weekly report generation immediately (for testing)
func (s *Scheduler) GenerateWeeklyNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	s.generateWeekly(ctx)
	return nil
}
