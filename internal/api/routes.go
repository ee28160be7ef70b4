package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jiyunpark/mulog/internal/chat"
	"github.com/jiyunpark/mulog/internal/config"
	"github.com/jiyunpark/mulog/internal/db"
	"github.com/jiyunpark/mulog/internal/report"
)

func NewRouter(cfg *config.Config, database *db.DB, reports *report.Generator, chatSvc *chat.Service, loc *time.Location) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)

	handlers := NewHandlers(cfg, database, reports, chatSvc, loc)

	// Each request to the AI endpoints costs an upstream model call
	aiLimiter := NewRateLimiter(10, time.Minute)

	// Public endpoints
	r.Get("/health", handlers.Health)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg))
		r.Use(JSONContentType)

		r.Post("/intake", handlers.CreateIntake)
		r.Get("/intake", handlers.ListIntake)
		r.Patch("/intake/{id}", handlers.UpdateIntake)
		r.Delete("/intake/{id}", handlers.DeleteIntake)

		r.Post("/memos", handlers.SaveMemo)
		r.Get("/memos", handlers.ListMemos)

		r.Get("/reports", handlers.ListReports)
		r.Get("/reports/{id}", handlers.GetReport)

		r.Get("/history", handlers.MonthHistory)
		r.Get("/history/{date}", handlers.DayHistoryDetail)

		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(aiLimiter))
			r.Post("/reports/generate", handlers.GenerateReport)
			r.Post("/chat", handlers.Chat)
		})
	})

	return r
}
