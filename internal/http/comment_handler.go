package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vote-board/internal/domain/comment"
	"vote-board/internal/metrics"
	"vote-board/internal/platform/apperr"
)

type createCommentRequest struct {
	UserID          string `json:"userId"`
	UserName        string `json:"userName"`
	UserAvatar      string `json:"userAvatar"`
	Content         string `json:"content"`
	ParentID        string `json:"parentId"`
	VoteChanged     bool   `json:"voteChanged"`
	VotedOptionText string `json:"votedOptionText"`
	NeedsReply      bool   `json:"needsReply"`
}

type commentActorRequest struct {
	UserID string `json:"userId"`
}

type editCommentRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

type needsReplyRequest struct {
	NeedsReply *bool `json:"needsReply"`
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentSvc.ListByPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	if comments == nil {
		comments = []comment.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "必要な情報が不足しています", err))
		return
	}

	draft := &comment.Comment{
		VoteID:          chi.URLParam(r, "id"),
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserAvatar:      req.UserAvatar,
		Content:         req.Content,
		ParentID:        req.ParentID,
		VoteChanged:     req.VoteChanged,
		VotedOptionText: req.VotedOptionText,
		NeedsReply:      req.NeedsReply,
	}

	created, err := h.commentSvc.Create(r.Context(), draft)
	if err != nil {
		errorResponse(w, err)
		return
	}

	metrics.IncCommentCreated()
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleLikeComment(w http.ResponseWriter, r *http.Request) {
	var req commentActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "ユーザーIDが必要です", err))
		return
	}

	c, err := h.commentSvc.ToggleLike(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleEditComment(w http.ResponseWriter, r *http.Request) {
	var req editCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "ユーザーIDが必要です", err))
		return
	}

	c, err := h.commentSvc.Edit(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Content)
	if err != nil {
		if errors.Is(err, comment.ErrNotOwner) {
			err = apperr.Forbidden("not_comment_owner", "このコメントを編集する権限がありません", err)
		}
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"comment": c,
	})
}

func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	var req commentActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "ユーザーIDが必要です", err))
		return
	}

	if err := h.commentSvc.Delete(r.Context(), chi.URLParam(r, "id"), req.UserID); err != nil {
		if errors.Is(err, comment.ErrNotOwner) {
			err = apperr.Forbidden("not_comment_owner", "このコメントを削除する権限がありません", err)
		}
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleNeedsReply(w http.ResponseWriter, r *http.Request) {
	var req needsReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NeedsReply == nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "needsReply is required", err))
		return
	}

	c, err := h.commentSvc.SetNeedsReply(r.Context(), chi.URLParam(r, "id"), *req.NeedsReply)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
