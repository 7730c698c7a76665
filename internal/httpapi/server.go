package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kyr04i/depressing/internal/domain"
	"github.com/kyr04i/depressing/internal/store"
)

// deadlineView is the JSON shape of a deadline.
type deadlineView struct {
	Name            string    `json:"name"`
	ActivateAt      time.Time `json:"activate_at"`
	WindowEnd       time.Time `json:"window_end"`
	DurationMinutes int64     `json:"duration_minutes"`
	Frequency       string    `json:"frequency"`
	Subscribers     []int64   `json:"subscribers"`
	Due             bool      `json:"due"`
}

func toView(d domain.Deadline, now time.Time) deadlineView {
	subs := d.Subscribers
	if subs == nil {
		subs = []int64{}
	}
	return deadlineView{
		Name:            d.Name,
		ActivateAt:      d.ActivateAt,
		WindowEnd:       d.WindowEnd(),
		DurationMinutes: int64(d.Duration / time.Minute),
		Frequency:       d.Frequency,
		Subscribers:     subs,
		Due:             d.DueAt(now),
	}
}

// NewRouter builds the ops HTTP handler: health, metrics and a read-only
// view of the registry.
func NewRouter(repo store.Repo, metricsHandler http.Handler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/deadlines", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			now := time.Now()
			snap := repo.Snapshot()
			out := make([]deadlineView, 0, len(snap))
			for _, d := range snap {
				out = append(out, toView(d, now))
			}
			writeJSON(w, log, http.StatusOK, out)
		})
		r.Get("/{name}", func(w http.ResponseWriter, req *http.Request) {
			d, ok := repo.Get(chi.URLParam(req, "name"))
			if !ok {
				writeJSON(w, log, http.StatusNotFound, map[string]string{"error": "deadline not found"})
				return
			}
			writeJSON(w, log, http.StatusOK, toView(d, time.Now()))
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode response failed", zap.Error(err))
	}
}
