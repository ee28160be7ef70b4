package db

import (
	"context"
	"testing"
	"time"

	"github.com/jiyunpark/mulog/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestIntakeCRUD(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	recordedAt := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	ev, err := database.InsertIntake(ctx, models.IntensityHigh, recordedAt)
	if err != nil {
		t.Fatalf("InsertIntake: %v", err)
	}
	if ev.ID == "" {
		t.Error("expected assigned id")
	}

	// Update
	found, err := database.UpdateIntakeIntensity(ctx, ev.ID, models.IntensityLow)
	if err != nil {
		t.Fatalf("UpdateIntakeIntensity: %v", err)
	}
	if !found {
		t.Error("expected update to find the row")
	}

	events, err := database.ListIntake(ctx, recordedAt.Add(-time.Hour), recordedAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListIntake: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Intensity != models.IntensityLow {
		t.Errorf("expected updated intensity low, got %s", events[0].Intensity)
	}
	if !events[0].RecordedAt.Equal(recordedAt) {
		t.Errorf("expected recorded_at %v, got %v", recordedAt, events[0].RecordedAt)
	}

	// Delete
	found, err = database.DeleteIntake(ctx, ev.ID)
	if err != nil {
		t.Fatalf("DeleteIntake: %v", err)
	}
	if !found {
		t.Error("expected delete to find the row")
	}

	events, _ = database.ListIntake(ctx, recordedAt.Add(-time.Hour), recordedAt.Add(time.Hour))
	if len(events) != 0 {
		t.Errorf("expected no events after delete, got %d", len(events))
	}
}

func TestIntakeUnknownID(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	found, err := database.UpdateIntakeIntensity(ctx, "missing", models.IntensityHigh)
	if err != nil {
		t.Fatalf("UpdateIntakeIntensity: %v", err)
	}
	if found {
		t.Error("expected update of unknown id to report not found")
	}

	found, err = database.DeleteIntake(ctx, "missing")
	if err != nil {
		t.Fatalf("DeleteIntake: %v", err)
	}
	if found {
		t.Error("expected delete of unknown id to report not found")
	}
}

func TestListIntakeRange(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, 12 * time.Hour, 24 * time.Hour, 48 * time.Hour} {
		if _, err := database.InsertIntake(ctx, models.IntensityMedium, base.Add(offset)); err != nil {
			t.Fatalf("InsertIntake: %v", err)
		}
	}

	// Half-open window: start inclusive, end exclusive
	events, err := database.ListIntake(ctx, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListIntake: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events in [base, base+24h), got %d", len(events))
	}

	// Ascending order
	for i := 1; i < len(events); i++ {
		if events[i].RecordedAt.Before(events[i-1].RecordedAt) {
			t.Error("expected events ordered by recorded_at ascending")
		}
	}
}

func TestMemoUpsertLastWriteWins(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	first, err := database.UpsertMemo(ctx, "2026-01-05", models.ConditionTired, "rough morning")
	if err != nil {
		t.Fatalf("UpsertMemo: %v", err)
	}
	if first.ConditionType != models.ConditionTired {
		t.Errorf("expected tired, got %s", first.ConditionType)
	}

	second, err := database.UpsertMemo(ctx, "2026-01-05", models.ConditionRefreshed, "better after lunch")
	if err != nil {
		t.Fatalf("UpsertMemo (second): %v", err)
	}
	if second.ConditionType != models.ConditionRefreshed {
		t.Errorf("expected refreshed after upsert, got %s", second.ConditionType)
	}
	if second.Note != "better after lunch" {
		t.Errorf("expected updated note, got %q", second.Note)
	}

	// Still a single row for the date
	memos, err := database.ListMemos(ctx, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("ListMemos: %v", err)
	}
	if len(memos) != 1 {
		t.Errorf("expected one memo row for the date, got %d", len(memos))
	}
}

func TestMemoOptionalFields(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	memo, err := database.UpsertMemo(ctx, "2026-01-06", "", "note only")
	if err != nil {
		t.Fatalf("UpsertMemo: %v", err)
	}
	if memo.ConditionType != "" {
		t.Errorf("expected empty condition type, got %q", memo.ConditionType)
	}
	if memo.Note != "note only" {
		t.Errorf("expected note preserved, got %q", memo.Note)
	}
}

func TestGetMemoMissing(t *testing.T) {
	database := setupTestDB(t)

	memo, err := database.GetMemo(context.Background(), "2026-02-01")
	if err != nil {
		t.Fatalf("GetMemo: %v", err)
	}
	if memo != nil {
		t.Errorf("expected nil for missing memo, got %+v", memo)
	}
}

func TestReportRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	saved, err := database.InsertReport(ctx, models.ReportDraft{
		PeriodStart: "2026-01-01",
		PeriodEnd:   "2026-01-07",
		Content:     "A gentle week of steady hydration.",
		ReportType:  models.ReportWeekly,
	})
	if err != nil {
		t.Fatalf("InsertReport: %v", err)
	}

	got, err := database.GetReport(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got == nil {
		t.Fatal("expected report to round-trip")
	}
	if got.Content != saved.Content || got.ReportType != models.ReportWeekly {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.PeriodStart != "2026-01-01" || got.PeriodEnd != "2026-01-07" {
		t.Errorf("unexpected period %s..%s", got.PeriodStart, got.PeriodEnd)
	}

	missing, err := database.GetReport(ctx, "missing")
	if err != nil {
		t.Fatalf("GetReport (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown report id")
	}
}

func TestListReportsLimit(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := database.InsertReport(ctx, models.ReportDraft{
			PeriodStart: "2026-01-01",
			PeriodEnd:   "2026-01-07",
			Content:     "report",
			ReportType:  models.ReportOnDemand,
		})
		if err != nil {
			t.Fatalf("InsertReport: %v", err)
		}
	}

	reports, err := database.ListReports(ctx, 2)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("expected limit to cap at 2, got %d", len(reports))
	}

	// Newest first
	for i := 1; i < len(reports); i++ {
		if reports[i].CreatedAt.After(reports[i-1].CreatedAt) {
			t.Error("expected reports ordered newest first")
		}
	}
}
