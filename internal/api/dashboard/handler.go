package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"hypeindex/internal/adapters/config"
	dashboardsvc "hypeindex/internal/services/dashboard"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
	"hypeindex/pkg/templates"
)

const pageTemplate = "pages/dashboard"

// Service is the dashboard behaviour the handler depends on
type Service interface {
	Load(ctx context.Context, ticker string) dashboardsvc.View
	Refresh(ctx context.Context, ticker string) dashboardsvc.View
	Tickers() []config.Ticker
}

// Handler serves the dashboard page and its JSON twin
type Handler struct {
	svc   Service
	pages *templates.Registry
	log   *logger.Logger
}

// NewHandler creates a dashboard handler rendering with pages
func NewHandler(svc Service, pages *templates.Registry, log *logger.Logger) *Handler {
	return &Handler{
		svc:   svc,
		pages: pages,
		log:   log.With("component", "dashboard_http"),
	}
}

// Register mounts the dashboard routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandlePage)
	mux.HandleFunc("POST /refresh", h.HandleRefresh)
	mux.HandleFunc("GET /api/dashboard", h.HandleView)
	mux.HandleFunc("POST /api/refresh", h.HandleRefreshJSON)
	mux.HandleFunc("GET /api/tickers", h.HandleTickers)
}

// HandlePage renders the HTML dashboard for ?ticker=
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.svc.Load(r.Context(), r.URL.Query().Get("ticker")))
}

// HandleRefresh drops cached prices, fetches both feeds again and renders the page
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, h.svc.Refresh(r.Context(), tickerParam(r)))
}

// HandleView returns the dashboard view as JSON
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Load(r.Context(), r.URL.Query().Get("ticker")))
}

// HandleRefreshJSON is HandleRefresh for API clients
func (h *Handler) HandleRefreshJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Refresh(r.Context(), tickerParam(r)))
}

// HandleTickers returns the curated ticker list
func (h *Handler) HandleTickers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Tickers())
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, view dashboardsvc.View) {
	var buf bytes.Buffer
	if err := h.pages.Execute(&buf, pageTemplate, view); err != nil {
		ctx := errors.WithRequestID(r.Context(), view.RequestID)
		h.log.ErrorWithContext(ctx, errors.Wrap(err, "render dashboard"), map[string]string{"ticker": view.Ticker})
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Request-ID", view.RequestID)
	_, _ = buf.WriteTo(w)
}

// tickerParam reads the ticker from the query string or a submitted form
func tickerParam(r *http.Request) string {
	if t := r.URL.Query().Get("ticker"); t != "" {
		return t
	}
	return r.PostFormValue("ticker")
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
