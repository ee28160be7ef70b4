package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/jiyunpark/mulog/internal/chat"
	"github.com/jiyunpark/mulog/internal/config"
	"github.com/jiyunpark/mulog/internal/db"
	"github.com/jiyunpark/mulog/internal/models"
	"github.com/jiyunpark/mulog/internal/report"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error           string `json:"error"`
	Code            string `json:"code,omitempty"`
	MinDataRequired bool   `json:"min_data_required,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeAppError maps an orchestrator error to status + body. The underlying
// cause goes to the log, never to the client.
func writeAppError(w http.ResponseWriter, err error) {
	kind, ok := models.KindOf(err)
	if !ok {
		log.Printf("unclassified error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL")
		return
	}

	log.Printf("request failed (%s): %v", kind, err)

	status := http.StatusInternalServerError
	switch kind {
	case models.KindValidation, models.KindInsufficientData:
		status = http.StatusBadRequest
	case models.KindConfiguration, models.KindStore:
		status = http.StatusInternalServerError
	case models.KindRetrieval, models.KindGeneration:
		status = http.StatusBadGateway
	}

	resp := ErrorResponse{
		Error: models.UserMessage(err, "internal error"),
		Code:  string(kind),
	}
	if kind == models.KindInsufficientData {
		resp.MinDataRequired = true
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

type Handlers struct {
	cfg     *config.Config
	db      *db.DB
	reports *report.Generator // nil when generative creds are absent
	chat    *chat.Service     // nil when retrieval or generative creds are absent
	loc     *time.Location
}

func NewHandlers(cfg *config.Config, database *db.DB, reports *report.Generator, chatSvc *chat.Service, loc *time.Location) *Handlers {
	return &Handlers{
		cfg:     cfg,
		db:      database,
		reports: reports,
		chat:    chatSvc,
		loc:     loc,
	}
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		Database:  h.checkDatabase(r.Context()),
		LLM:       h.checkLLM(),
		Retrieval: h.checkRetrieval(),
		Version:   "1.0.0",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) checkDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "connected"
}

func (h *Handlers) checkLLM() string {
	if h.reports == nil {
		return "not configured"
	}
	return h.cfg.LLMProvider
}

func (h *Handlers) checkRetrieval() string {
	if h.chat == nil {
		return "not configured"
	}
	return "configured"
}

// CreateIntake handles POST /api/v1/intake
func (h *Handlers) CreateIntake(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	if !models.ValidIntensity(req.Intensity) {
		writeError(w, http.StatusBadRequest, "intensity must be high, medium or low", "VALIDATION")
		return
	}

	recordedAt, err := h.parseRecordedAt(req.RecordedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "recorded_at must be RFC3339 or YYYY-MM-DD", "VALIDATION")
		return
	}

	event, err := h.db.InsertIntake(r.Context(), models.Intensity(req.Intensity), recordedAt)
	if err != nil {
		log.Printf("insert intake failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save the intake record", "STORE")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

// parseRecordedAt resolves the optional recorded_at field. A bare date is
// normalized to midday local so the event lands inside the intended
// calendar day regardless of timezone math downstream.
func (h *Handlers) parseRecordedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Now().In(h.loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(h.loc), nil
	}
	day, err := time.ParseInLocation(models.DateFormat, s, h.loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(12 * time.Hour), nil
}

// ListIntake handles GET /api/v1/intake
func (h *Handlers) ListIntake(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)

	start, err := h.parseBound(r.URL.Query().Get("from"), today, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be RFC3339 or YYYY-MM-DD", "VALIDATION")
		return
	}
	end, err := h.parseBound(r.URL.Query().Get("to"), today.AddDate(0, 0, 1), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be RFC3339 or YYYY-MM-DD", "VALIDATION")
		return
	}

	events, err := h.db.ListIntake(r.Context(), start, end)
	if err != nil {
		log.Printf("list intake failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load intake records", "STORE")
		return
	}
	if events == nil {
		events = []models.IntakeEvent{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(events)
}

// parseBound resolves a range bound. A date-only upper bound is pushed to
// the following midnight so the named day is included.
func (h *Handlers) parseBound(s string, def time.Time, upper bool) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(h.loc), nil
	}
	day, err := time.ParseInLocation(models.DateFormat, s, h.loc)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return day.AddDate(0, 0, 1), nil
	}
	return day, nil
}

// UpdateIntake handles PATCH /api/v1/intake/{id}
func (h *Handlers) UpdateIntake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	if !models.ValidIntensity(req.Intensity) {
		writeError(w, http.StatusBadRequest, "intensity must be high, medium or low", "VALIDATION")
		return
	}

	found, err := h.db.UpdateIntakeIntensity(r.Context(), id, models.Intensity(req.Intensity))
	if err != nil {
		log.Printf("update intake %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to update the intake record", "STORE")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "intake record not found", "NOT_FOUND")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"id": id, "intensity": req.Intensity})
}

// DeleteIntake handles DELETE /api/v1/intake/{id}
func (h *Handlers) DeleteIntake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.db.DeleteIntake(r.Context(), id)
	if err != nil {
		log.Printf("delete intake %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete the intake record", "STORE")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "intake record not found", "NOT_FOUND")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"id": id, "status": "deleted"})
}

// SaveMemo handles POST /api/v1/memos
func (h *Handlers) SaveMemo(w http.ResponseWriter, r *http.Request) {
	var req models.SaveMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	if _, err := time.Parse(models.DateFormat, req.MemoDate); err != nil {
		writeError(w, http.StatusBadRequest, "memo_date must be a YYYY-MM-DD date", "VALIDATION")
		return
	}
	if !models.ValidConditionType(req.ConditionType) {
		writeError(w, http.StatusBadRequest, "condition_type must be tired, swollen, refreshed or normal", "VALIDATION")
		return
	}

	memo, err := h.db.UpsertMemo(r.Context(), req.MemoDate, models.ConditionType(req.ConditionType), req.Note)
	if err != nil {
		log.Printf("save memo for %s failed: %v", req.MemoDate, err)
		writeError(w, http.StatusInternalServerError, "failed to save the memo", "STORE")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(memo)
}

// ListMemos handles GET /api/v1/memos (?date= or ?from=&to=)
func (h *Handlers) ListMemos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if date := q.Get("date"); date != "" {
		if _, err := time.Parse(models.DateFormat, date); err != nil {
			writeError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date", "VALIDATION")
			return
		}
		memo, err := h.db.GetMemo(r.Context(), date)
		if err != nil {
			log.Printf("get memo for %s failed: %v", date, err)
			writeError(w, http.StatusInternalServerError, "failed to load the memo", "STORE")
			return
		}
		if memo == nil {
			writeError(w, http.StatusNotFound, "no memo for this date", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(memo)
		return
	}

	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "date, or from and to, is required", "VALIDATION")
		return
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(models.DateFormat, d); err != nil {
			writeError(w, http.StatusBadRequest, "from and to must be YYYY-MM-DD dates", "VALIDATION")
			return
		}
	}

	memos, err := h.db.ListMemos(r.Context(), from, to)
	if err != nil {
		log.Printf("list memos failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load memos", "STORE")
		return
	}
	if memos == nil {
		memos = []models.ConditionMemo{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(memos)
}

// GenerateReport handles POST /api/v1/reports/generate
func (h *Handlers) GenerateReport(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		writeError(w, http.StatusInternalServerError, "generative service credentials are not configured", "CONFIG")
		return
	}

	var req models.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	rep, err := h.reports.Generate(r.Context(), req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rep)
}

// ListReports handles GET /api/v1/reports
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "VALIDATION")
			return
		}
		limit = n
	}

	reports, err := h.db.ListReports(r.Context(), limit)
	if err != nil {
		log.Printf("list reports failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load reports", "STORE")
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(reports)
}

// GetReport handles GET /api/v1/reports/{id}
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rep, err := h.db.GetReport(r.Context(), id)
	if err != nil {
		log.Printf("get report %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load the report", "STORE")
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "report not found", "NOT_FOUND")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rep)
}

// Chat handles POST /api/v1/chat
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		writeError(w, http.StatusInternalServerError, "chat is not configured", "CONFIG")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	result, err := h.chat.Answer(r.Context(), req.Question)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// MonthHistory handles GET /api/v1/history?year=&month=
func (h *Handlers) MonthHistory(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "year is required", "VALIDATION")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12", "VALIDATION")
		return
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, h.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	events, err := h.db.ListIntake(r.Context(), monthStart, monthEnd)
	if err != nil {
		log.Printf("history: list intake failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load intake records", "STORE")
		return
	}
	memos, err := h.db.ListMemos(r.Context(),
		monthStart.Format(models.DateFormat),
		monthEnd.AddDate(0, 0, -1).Format(models.DateFormat))
	if err != nil {
		log.Printf("history: list memos failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load memos", "STORE")
		return
	}

	days := buildMonthHistory(events, memos, h.loc)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(days)
}

// buildMonthHistory rolls intake and memos up per calendar day. Only days
// that have at least one record appear, in ascending date order.
func buildMonthHistory(events []models.IntakeEvent, memos []models.ConditionMemo, loc *time.Location) []models.DayHistory {
	byDay := make(map[string]*models.DayHistory)
	var order []string

	day := func(date string) *models.DayHistory {
		if d, ok := byDay[date]; ok {
			return d
		}
		d := &models.DayHistory{Date: date}
		byDay[date] = d
		order = append(order, date)
		return d
	}

	for _, e := range events {
		d := day(e.RecordedAt.In(loc).Format(models.DateFormat))
		d.LogCount++
		switch e.Intensity {
		case models.IntensityHigh:
			d.IntensitySummary.High++
		case models.IntensityMedium:
			d.IntensitySummary.Medium++
		case models.IntensityLow:
			d.IntensitySummary.Low++
		}
	}
	for i := range memos {
		day(memos[i].MemoDate).ConditionMemo = &memos[i]
	}

	sort.Strings(order)

	days := make([]models.DayHistory, 0, len(order))
	for _, date := range order {
		days = append(days, *byDay[date])
	}
	return days
}

// DayHistoryDetail handles GET /api/v1/history/{date}
func (h *Handlers) DayHistoryDetail(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	day, err := time.ParseInLocation(models.DateFormat, date, h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date", "VALIDATION")
		return
	}

	events, err := h.db.ListIntake(r.Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("day detail: list intake failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load intake records", "STORE")
		return
	}
	memo, err := h.db.GetMemo(r.Context(), date)
	if err != nil {
		log.Printf("day detail: get memo failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load the memo", "STORE")
		return
	}

	if events == nil {
		events = []models.IntakeEvent{}
	}
	detail := models.DayDetail{
		Date:          date,
		Logs:          events,
		ConditionMemo: memo,
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(detail)
}
