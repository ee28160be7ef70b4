package models

import "time"

// Intensity describes how much water a single intake event represents.
type Intensity string

const (
	IntensityHigh   Intensity = "high"
	IntensityMedium Intensity = "medium"
	IntensityLow    Intensity = "low"
)

// ValidIntensity reports whether s is one of the three intake intensities.
func ValidIntensity(s string) bool {
	switch Intensity(s) {
	case IntensityHigh, IntensityMedium, IntensityLow:
		return true
	}
	return false
}

// ConditionType is an optional daily well-being category.
type ConditionType string

const (
	ConditionTired     ConditionType = "tired"
	ConditionSwollen   ConditionType = "swollen"
	ConditionRefreshed ConditionType = "refreshed"
	ConditionNormal    ConditionType = "normal"
)

// ValidConditionType reports whether s is a known condition type.
// The empty string is valid: a memo may carry a note without a category.
func ValidConditionType(s string) bool {
	switch ConditionType(s) {
	case "", ConditionTired, ConditionSwollen, ConditionRefreshed, ConditionNormal:
		return true
	}
	return false
}

// ReportType distinguishes scheduler-produced reports from user-requested ones.
type ReportType string

const (
	ReportWeekly   ReportType = "weekly"
	ReportOnDemand ReportType = "on_demand"
)

// DateFormat is the date-only layout used for memo dates and report periods.
const DateFormat = "2006-01-02"

// IntakeEvent is a single logged water intake.
type IntakeEvent struct {
	ID         string    `json:"id"`
	Intensity  Intensity `json:"intensity"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ConditionMemo is the once-daily well-being entry, keyed by its date.
type ConditionMemo struct {
	MemoDate      string        `json:"memo_date"` // YYYY-MM-DD, natural key
	ConditionType ConditionType `json:"condition_type,omitempty"`
	Note          string        `json:"note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ReportDraft is a report before the store assigns its id and created_at.
type ReportDraft struct {
	PeriodStart string
	PeriodEnd   string
	Content     string
	ReportType  ReportType
}

// Report is a persisted AI-generated hydration report.
type Report struct {
	ID          string     `json:"id"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	Content     string     `json:"content"`
	ReportType  ReportType `json:"report_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Passage is a retrieved knowledge-base chunk with source attribution.
type Passage struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	ChunkID    string  `json:"chunk_id,omitempty"`
	DocumentID string  `json:"document_id,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// ChatResult is the RAG answer plus the passages it was grounded on.
type ChatResult struct {
	Answer  string    `json:"answer"`
	Sources []Passage `json:"sources"`
}

// CreateIntakeRequest is the body of POST /api/v1/intake.
type CreateIntakeRequest struct {
	Intensity string `json:"intensity"`
	// RecordedAt accepts RFC3339 or a bare date; a bare date is normalized
	// to midday local time to keep it inside the intended calendar day.
	RecordedAt string `json:"recorded_at,omitempty"`
}

// UpdateIntakeRequest is the body of PATCH /api/v1/intake/{id}.
type UpdateIntakeRequest struct {
	Intensity string `json:"intensity"`
}

// SaveMemoRequest is the body of POST /api/v1/memos.
type SaveMemoRequest struct {
	MemoDate      string `json:"memo_date"`
	ConditionType string `json:"condition_type,omitempty"`
	Note          string `json:"note,omitempty"`
}

// GenerateReportRequest is the body of POST /api/v1/reports/generate.
// Both fields optional; omitting them selects the trailing 7-day window.
type GenerateReportRequest struct {
	PeriodStart string `json:"period_start,omitempty"`
	PeriodEnd   string `json:"period_end,omitempty"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// IntensitySummary is the per-day intensity split used by the history view.
type IntensitySummary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// DayHistory is one calendar day in the monthly history rollup.
type DayHistory struct {
	Date             string           `json:"date"`
	LogCount         int              `json:"log_count"`
	IntensitySummary IntensitySummary `json:"intensity_summary"`
	ConditionMemo    *ConditionMemo   `json:"condition_memo"`
}

// DayDetail is the full record set for a single day.
type DayDetail struct {
	Date          string         `json:"date"`
	Logs          []IntakeEvent  `json:"logs"`
	ConditionMemo *ConditionMemo `json:"condition_memo"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LLM       string `json:"llm"`
	Retrieval string `json:"retrieval"`
	Version   string `json:"version"`
}
