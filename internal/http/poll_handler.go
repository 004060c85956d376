package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vote-board/internal/domain/analytics"
	"vote-board/internal/domain/poll"
	"vote-board/internal/platform/apperr"
)

type createPollRequest struct {
	Title           string                `json:"title"`
	Options         []string              `json:"options"`
	Category        string                `json:"category"`
	AuthorID        string                `json:"authorId"`
	AuthorName      string                `json:"authorName"`
	IsPrivate       bool                  `json:"isPrivate"`
	ShowAnalytics   *bool                 `json:"showAnalytics"`
	CustomQuestions []poll.CustomQuestion `json:"customQuestions"`
}

type deletePollRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.pollSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "タイトルと2つ以上の選択肢が必要です", err))
		return
	}

	draft := &poll.Poll{
		Title:           req.Title,
		Category:        req.Category,
		AuthorID:        req.AuthorID,
		AuthorName:      req.AuthorName,
		IsPrivate:       req.IsPrivate,
		ShowAnalytics:   true,
		CustomQuestions: req.CustomQuestions,
	}
	if req.ShowAnalytics != nil {
		draft.ShowAnalytics = *req.ShowAnalytics
	}

	created, err := h.pollSvc.Create(r.Context(), draft, req.Options)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.pollSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// @Summary     Delete a poll
// @Tags        votes
// @Accept      json
// @Param       id       path  string             true  "Poll ID"
// @Param       request  body  deletePollRequest  true  "Caller identity"
// @Success     200  {object}  map[string]bool
// @Failure     400  {object}  map[string]string  "missing userId"
// @Failure     403  {object}  map[string]string  "not the author"
// @Failure     404  {object}  map[string]string  "not found"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /votes/{id}/delete [delete]
func (h *Handler) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	var req deletePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "ユーザーIDが必要です", err))
		return
	}

	if err := h.pollSvc.Delete(r.Context(), chi.URLParam(r, "id"), req.UserID); err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleAnalytics serves the attribute breakdown. Polls that keep analytics
// private only answer for the author's own (self-asserted) user id.
func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	p, err := h.pollSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	if !p.ShowAnalytics && r.URL.Query().Get("userId") != p.AuthorID {
		errorResponse(w, apperr.Forbidden("analytics_hidden", "この投票の分析は非公開です", nil))
		return
	}

	writeJSON(w, http.StatusOK, analytics.Breakdown(p))
}
