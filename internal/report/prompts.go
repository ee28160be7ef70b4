package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jiyunpark/mulog/internal/models"
)

// Hydration report prompt. The instruction block is the control surface for
// the model's output shape: tone, three-part structure, length bound, and
// the ban on judgmental phrasing are fixed, not templated per user.
const reportPromptTemplate = `You are a friendly, empathetic AI coach who analyzes water-intake habits.

# Data to analyze
- Period: %s ~ %s
- Total records: %d
- Intake intensity: plenty (%d), moderate (%d), light (%d)

# Time-of-day pattern
%s

# Weekday pattern
%s

# Condition and notes
%s

---

# Writing instructions
1. **Tone**: Warm and encouraging, like chatting with a friend or a coach.
2. **Structure**:
   - **Overall flow**: Summarize the intake pattern for this period
   - **Observed pattern**: Connect time-of-day, weekday, or condition signals (e.g. "On tired days you seemed to drink less")
   - **One small suggestion**: Offer a single, low-pressure tip to try
3. **Cautions**:
   - Never scold or judge. (Not: "You barely drank any water", but: "It looks like busy days made it hard to find time for water")
   - Prefer positive possibilities over negative words.
   - Keep it short and readable, about 2-3 paragraphs.

Write the report for the user based on the data above.`

// BuildReportPrompt renders the summary and period bounds into the report
// prompt. Pure string building; malformed input degrades to placeholder
// lines rather than failing.
func BuildReportPrompt(s Summary, periodStart, periodEnd string) string {
	return fmt.Sprintf(reportPromptTemplate,
		periodStart, periodEnd,
		s.TotalCount,
		s.CountsByIntensity[models.IntensityHigh],
		s.CountsByIntensity[models.IntensityMedium],
		s.CountsByIntensity[models.IntensityLow],
		formatBucketLines(s.CountsByTimeOfDay),
		formatWeekdayLines(s.CountsByWeekday),
		s.ConditionSummaryText,
	)
}

func formatBucketLines(counts map[string]int) string {
	var lines []string
	for _, bucket := range []string{BucketMorning, BucketAfternoon, BucketEvening} {
		if n, ok := counts[bucket]; ok && n > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %d", bucket, n))
		}
	}
	if len(lines) == 0 {
		return "(no records)"
	}
	return strings.Join(lines, "\n")
}

func formatWeekdayLines(counts map[string]int) string {
	var lines []string
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := wd.String()
		if n, ok := counts[name]; ok && n > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %d", name, n))
		}
	}
	if len(lines) == 0 {
		return "(no records)"
	}
	return strings.Join(lines, "\n")
}
