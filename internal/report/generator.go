package report

import (
	"context"
	"strings"
	"time"

	"github.com/jiyunpark/mulog/internal/llm"
	"github.com/jiyunpark/mulog/internal/models"
)

// MinIntakeRecords is the minimum number of intake events a window must hold
// before a report is generated. Below this the result would not be
// meaningful, and the generative call is skipped entirely.
const MinIntakeRecords = 3

// generateTimeout bounds the single generative-service call, the only
// unbounded-latency dependency in the pipeline.
const generateTimeout = 60 * time.Second

// fetchRetryDelay is the pause before the one retry of a failed store read.
const fetchRetryDelay = 500 * time.Millisecond

// Store is the record-store surface the generator needs. *db.DB satisfies
// it; tests substitute fakes.
type Store interface {
	ListIntake(ctx context.Context, start, end time.Time) ([]models.IntakeEvent, error)
	ListMemos(ctx context.Context, from, to string) ([]models.ConditionMemo, error)
	InsertReport(ctx context.Context, draft models.ReportDraft) (*models.Report, error)
}

// Generator runs the report pipeline: resolve period, fetch window,
// summarize, prompt, generate, persist. It holds no state across calls;
// every invocation is a fresh read-compute-write cycle.
type Generator struct {
	store Store
	llm   llm.Generator
	loc   *time.Location

	// now is swappable for tests of the default window.
	now func() time.Time
}

// NewGenerator wires the pipeline. The generative client must already be
// constructed; credential absence is caught here, once, not per call.
func NewGenerator(store Store, gen llm.Generator, loc *time.Location) (*Generator, error) {
	if gen == nil {
		return nil, models.ConfigurationError("generative service credentials are not configured")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{
		store: store,
		llm:   gen,
		loc:   loc,
		now:   time.Now,
	}, nil
}

// Generate produces and persists one report. periodStart and periodEnd are
// optional YYYY-MM-DD bounds; when both are empty the trailing 7-day window
// ending today is used and the report is typed weekly. Any explicit bound
// makes the report on_demand.
//
// On every failure path the store is left unchanged: generated text is
// discarded when the insert fails, and nothing is written before the
// generation step succeeds.
func (g *Generator) Generate(ctx context.Context, periodStart, periodEnd string) (*models.Report, error) {
	// validating
	explicit := periodStart != "" || periodEnd != ""

	end, err := g.resolveDate(periodEnd)
	if err != nil {
		return nil, models.ValidationError("period_end must be a YYYY-MM-DD date")
	}
	var start time.Time
	if periodStart != "" {
		start, err = g.resolveDate(periodStart)
		if err != nil {
			return nil, models.ValidationError("period_start must be a YYYY-MM-DD date")
		}
	} else {
		start = end.AddDate(0, 0, -6)
	}
	if start.After(end) {
		return nil, models.ValidationError("period_start must not be after period_end")
	}

	startStr := start.Format(models.DateFormat)
	endStr := end.Format(models.DateFormat)
	windowStart := start
	windowEnd := end.AddDate(0, 0, 1) // inclusive date bounds

	// fetching
	events, err := g.fetchIntake(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, models.StoreError("failed to load intake records", err)
	}

	// minimum-data gate: no generative call, no write
	if len(events) < MinIntakeRecords {
		return nil, models.InsufficientDataError("at least 3 intake records are needed to generate a report")
	}

	memos, err := g.fetchMemos(ctx, startStr, endStr)
	if err != nil {
		return nil, models.StoreError("failed to load condition memos", err)
	}

	// summarizing + generating: single attempt, bounded by timeout
	summary := BuildSummary(events, memos, g.loc)
	prompt := BuildReportPrompt(summary, startStr, endStr)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	content, err := g.llm.Generate(genCtx, prompt)
	if err != nil {
		return nil, models.GenerationError("failed to generate the report, please try again shortly", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.GenerationError("the AI service returned an empty report", nil)
	}

	// persisting
	reportType := models.ReportWeekly
	if explicit {
		reportType = models.ReportOnDemand
	}
	saved, err := g.store.InsertReport(ctx, models.ReportDraft{
		PeriodStart: startStr,
		PeriodEnd:   endStr,
		Content:     content,
		ReportType:  reportType,
	})
	if err != nil {
		return nil, models.StoreError("failed to save the report", err)
	}

	return saved, nil
}

func (g *Generator) resolveDate(s string) (time.Time, error) {
	if s == "" {
		now := g.now().In(g.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, g.loc), nil
	}
	return time.ParseInLocation(models.DateFormat, s, g.loc)
}

// fetchIntake reads the event window, retrying once on a transient fault.
// Reads are side-effect free, so a single retry is safe.
func (g *Generator) fetchIntake(ctx context.Context, start, end time.Time) ([]models.IntakeEvent, error) {
	events, err := g.store.ListIntake(ctx, start, end)
	if err == nil {
		return events, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(fetchRetryDelay):
	}
	return g.store.ListIntake(ctx, start, end)
}

func (g *Generator) fetchMemos(ctx context.Context, from, to string) ([]models.ConditionMemo, error) {
	memos, err := g.store.ListMemos(ctx, from, to)
	if err == nil {
		return memos, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(fetchRetryDelay):
	}
	return g.store.ListMemos(ctx, from, to)
}
