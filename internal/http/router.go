package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler, metrics *Metrics, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(Timeout)
	r.Use(CORS)
	r.Use(metrics.Middleware)

	r.Get("/", handler.Root)
	r.Get("/healthz", handler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", handler.TodayReports)
		r.Get("/by", handler.ReportsBetween)
		r.Get("/products", handler.InvoiceProducts)
		r.Get("/byName", handler.ReportsByName)
		r.Get("/pdf", handler.RangeExport)
		r.Get("/export", handler.RangeWorkbook)
	})

	return r
}
