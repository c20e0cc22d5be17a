// Package http assembles the REST router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"vidvault/internal/handlers"
	"vidvault/internal/monitor"
	"vidvault/internal/rag"
	"vidvault/internal/service"
	"vidvault/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB           *gorm.DB
	ProviderName string
	VideoRepo    storage.VideoStore
	Videos       service.VideoService
	Categories   service.CategoryService
	Chat         service.ChatService
	Engine       rag.Engine
	Collector    *monitor.Collector
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(Metrics(deps.Collector))
	r.Use(CORS)

	videoHandler := handlers.NewVideoHandler(deps.Videos)
	categoryHandler := handlers.NewCategoryHandler(deps.Categories)
	chatHandler := handlers.NewChatHandler(deps.Chat)
	graphHandler := handlers.NewGraphHandler(deps.VideoRepo, deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.ProviderName)
	monitorHandler := handlers.NewMonitorHandler(deps.Collector)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.List)
			r.Post("/", videoHandler.Create)
			r.Post("/auto-categorize/batch", videoHandler.AutoCategorizeBatch)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", videoHandler.Get)
				r.Put("/", videoHandler.Update)
				r.Delete("/", videoHandler.Delete)
				r.Post("/process", videoHandler.Process)
				r.Post("/auto-categorize", videoHandler.AutoCategorize)
				r.Get("/summary/html", videoHandler.SummaryHTML)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Post("/", categoryHandler.Create)
			r.Get("/tree", categoryHandler.Tree)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", categoryHandler.Get)
				r.Put("/", categoryHandler.Update)
				r.Delete("/", categoryHandler.Delete)
			})
		})

		r.Get("/graph", graphHandler.Get)
		r.Get("/graph/relationships/{id}", graphHandler.Relationships)

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Get("/", chatHandler.ListSessions)
			r.Post("/", chatHandler.StartSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", chatHandler.GetSession)
				r.Delete("/", chatHandler.DeleteSession)
				r.Post("/ask", chatHandler.Ask)
			})
		})

		r.Route("/monitoring", func(r chi.Router) {
			r.Get("/performance", monitorHandler.Performance)
			r.Get("/errors", monitorHandler.Errors)
			r.Post("/reset", monitorHandler.Reset)
		})
	})

	return r
}
