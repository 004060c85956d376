package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"vote-board/internal/domain/comment"
	"vote-board/internal/domain/poll"
	"vote-board/internal/domain/vote"
	"vote-board/internal/worker"
)

type Handler struct {
	pollSvc    *poll.Service
	voteSvc    *vote.Service
	commentSvc *comment.Service
	voteCh     chan<- worker.VoteEvent
	db         *sql.DB
}

func NewRouter(
	pollSvc *poll.Service,
	voteSvc *vote.Service,
	commentSvc *comment.Service,
	voteCh chan<- worker.VoteEvent,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		pollSvc:    pollSvc,
		voteSvc:    voteSvc,
		commentSvc: commentSvc,
		voteCh:     voteCh,
		db:         db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/votes", func(r chi.Router) {
		r.Get("/", h.handleListPolls)
		r.Post("/", h.handleCreatePoll)
		r.Get("/{id}", h.handleGetPoll)
		r.With(RateLimitVotes(rate.Every(time.Minute/10), 3)).Post("/{id}/vote", h.handleCastVote)
		r.Delete("/{id}/delete", h.handleDeletePoll)
		r.Get("/{id}/comments", h.handleListComments)
		r.Post("/{id}/comments", h.handleCreateComment)
		r.Get("/{id}/analytics", h.handleAnalytics)
	})

	r.Route("/comments/{id}", func(r chi.Router) {
		r.Post("/like", h.handleLikeComment)
		r.Post("/edit", h.handleEditComment)
		r.Delete("/delete", h.handleDeleteComment)
		r.Post("/needs-reply", h.handleNeedsReply)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
