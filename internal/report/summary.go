package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jiyunpark/mulog/internal/models"
)

// Time-of-day bucket keys. An event lands in morning before noon, in
// afternoon from 12:00 through 17:59, and in evening from 18:00 on.
const (
	BucketMorning   = "morning"
	BucketAfternoon = "afternoon"
	BucketEvening   = "evening"
)

// NoNotesPlaceholder stands in for the condition section when the window
// holds no memos.
const NoNotesPlaceholder = "(no condition notes recorded)"

// Summary is the aggregate view of a report window, ready for prompting.
type Summary struct {
	TotalCount           int
	CountsByIntensity    map[models.Intensity]int
	CountsByTimeOfDay    map[string]int
	CountsByWeekday      map[string]int
	ConditionSummaryText string
}

// BuildSummary reduces the window's intake events and condition memos into
// aggregate counts. Pure: no I/O, deterministic for a given location.
// Intensity counts are zero-filled so all three keys are always present;
// time-of-day and weekday keys appear only when their count is positive.
func BuildSummary(events []models.IntakeEvent, memos []models.ConditionMemo, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}

	s := Summary{
		TotalCount: len(events),
		CountsByIntensity: map[models.Intensity]int{
			models.IntensityHigh:   0,
			models.IntensityMedium: 0,
			models.IntensityLow:    0,
		},
		CountsByTimeOfDay: make(map[string]int),
		CountsByWeekday:   make(map[string]int),
	}

	for _, ev := range events {
		s.CountsByIntensity[ev.Intensity]++

		local := ev.RecordedAt.In(loc)
		s.CountsByTimeOfDay[timeOfDayBucket(local.Hour())]++
		s.CountsByWeekday[local.Weekday().String()]++
	}

	s.ConditionSummaryText = formatConditionSummary(memos)
	return s
}

func timeOfDayBucket(hour int) string {
	switch {
	case hour < 12:
		return BucketMorning
	case hour < 18:
		return BucketAfternoon
	default:
		return BucketEvening
	}
}

func formatConditionSummary(memos []models.ConditionMemo) string {
	if len(memos) == 0 {
		return NoNotesPlaceholder
	}

	lines := make([]string, 0, len(memos))
	for _, memo := range memos {
		condition := string(memo.ConditionType)
		if condition == "" {
			condition = "no condition recorded"
		}
		line := fmt.Sprintf("%s: %s", memo.MemoDate, condition)
		if memo.Note != "" {
			line += fmt.Sprintf(" (%s)", memo.Note)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
