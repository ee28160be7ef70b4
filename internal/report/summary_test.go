package report

import (
	"testing"
	"time"

	"github.com/jiyunpark/mulog/internal/models"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	return loc
}

func event(t *testing.T, intensity models.Intensity, ts string) models.IntakeEvent {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("parsing %s: %v", ts, err)
	}
	return models.IntakeEvent{ID: "ev", Intensity: intensity, RecordedAt: parsed}
}

func TestBuildSummaryCounts(t *testing.T) {
	loc := mustLoc(t)

	// Two high, one low, no memos. Times are local Seoul offsets (+09:00).
	events := []models.IntakeEvent{
		event(t, models.IntensityHigh, "2026-01-05T09:00:00+09:00"), // Monday morning
		event(t, models.IntensityHigh, "2026-01-05T14:30:00+09:00"), // Monday afternoon
		event(t, models.IntensityLow, "2026-01-06T20:00:00+09:00"),  // Tuesday evening
	}

	s := BuildSummary(events, nil, loc)

	if s.TotalCount != 3 {
		t.Errorf("expected total 3, got %d", s.TotalCount)
	}
	if s.CountsByIntensity[models.IntensityHigh] != 2 {
		t.Errorf("expected 2 high, got %d", s.CountsByIntensity[models.IntensityHigh])
	}
	if s.CountsByIntensity[models.IntensityMedium] != 0 {
		t.Errorf("expected 0 medium, got %d", s.CountsByIntensity[models.IntensityMedium])
	}
	if s.CountsByIntensity[models.IntensityLow] != 1 {
		t.Errorf("expected 1 low, got %d", s.CountsByIntensity[models.IntensityLow])
	}

	// All three intensity keys present even when zero
	if _, ok := s.CountsByIntensity[models.IntensityMedium]; !ok {
		t.Error("expected medium key to be zero-filled")
	}

	if s.CountsByTimeOfDay[BucketMorning] != 1 {
		t.Errorf("expected 1 morning, got %d", s.CountsByTimeOfDay[BucketMorning])
	}
	if s.CountsByTimeOfDay[BucketAfternoon] != 1 {
		t.Errorf("expected 1 afternoon, got %d", s.CountsByTimeOfDay[BucketAfternoon])
	}
	if s.CountsByTimeOfDay[BucketEvening] != 1 {
		t.Errorf("expected 1 evening, got %d", s.CountsByTimeOfDay[BucketEvening])
	}

	if s.CountsByWeekday["Monday"] != 2 {
		t.Errorf("expected 2 Monday, got %d", s.CountsByWeekday["Monday"])
	}
	if s.CountsByWeekday["Tuesday"] != 1 {
		t.Errorf("expected 1 Tuesday, got %d", s.CountsByWeekday["Tuesday"])
	}

	if s.ConditionSummaryText != NoNotesPlaceholder {
		t.Errorf("expected placeholder for no memos, got %q", s.ConditionSummaryText)
	}
}

func TestBuildSummaryBucketPartition(t *testing.T) {
	// Every hour of the day lands in exactly one bucket
	tests := []struct {
		hour   int
		bucket string
	}{
		{0, BucketMorning},
		{11, BucketMorning},
		{12, BucketAfternoon},
		{17, BucketAfternoon},
		{18, BucketEvening},
		{23, BucketEvening},
	}

	for _, tc := range tests {
		got := timeOfDayBucket(tc.hour)
		if got != tc.bucket {
			t.Errorf("hour %d: expected %s, got %s", tc.hour, tc.bucket, got)
		}
	}

	total := 0
	for hour := 0; hour < 24; hour++ {
		switch timeOfDayBucket(hour) {
		case BucketMorning, BucketAfternoon, BucketEvening:
			total++
		default:
			t.Errorf("hour %d fell outside all buckets", hour)
		}
	}
	if total != 24 {
		t.Errorf("expected 24 bucketed hours, got %d", total)
	}
}

func TestBuildSummaryLocalTimeBuckets(t *testing.T) {
	loc := mustLoc(t)

	// 23:30 UTC is 08:30 the next day in Seoul: morning, not evening
	events := []models.IntakeEvent{
		event(t, models.IntensityMedium, "2026-01-05T23:30:00Z"),
	}

	s := BuildSummary(events, nil, loc)

	if s.CountsByTimeOfDay[BucketMorning] != 1 {
		t.Errorf("expected UTC evening to bucket as local morning, got %v", s.CountsByTimeOfDay)
	}
	if s.CountsByWeekday["Tuesday"] != 1 {
		t.Errorf("expected local Tuesday, got %v", s.CountsByWeekday)
	}
}

func TestFormatConditionSummary(t *testing.T) {
	memos := []models.ConditionMemo{
		{MemoDate: "2026-01-05", ConditionType: models.ConditionTired, Note: "long day"},
		{MemoDate: "2026-01-06", ConditionType: models.ConditionRefreshed},
		{MemoDate: "2026-01-07", Note: "just a note"},
	}

	got := formatConditionSummary(memos)

	want := "2026-01-05: tired (long day)\n" +
		"2026-01-06: refreshed\n" +
		"2026-01-07: no condition recorded (just a note)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuildSummaryEmptyWindow(t *testing.T) {
	s := BuildSummary(nil, nil, time.UTC)

	if s.TotalCount != 0 {
		t.Errorf("expected total 0, got %d", s.TotalCount)
	}
	if len(s.CountsByTimeOfDay) != 0 {
		t.Errorf("expected no time-of-day keys, got %v", s.CountsByTimeOfDay)
	}
	if len(s.CountsByWeekday) != 0 {
		t.Errorf("expected no weekday keys, got %v", s.CountsByWeekday)
	}
	if s.ConditionSummaryText != NoNotesPlaceholder {
		t.Errorf("expected placeholder, got %q", s.ConditionSummaryText)
	}
}
