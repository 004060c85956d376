package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vote-board/internal/domain/vote"
	"vote-board/internal/platform/apperr"
	"vote-board/internal/worker"
)

type castVoteRequest struct {
	OptionID         string            `json:"optionId"`
	UserID           string            `json:"userId"`
	Age              string            `json:"age"`
	Gender           string            `json:"gender"`
	Region           string            `json:"region"`
	Occupation       string            `json:"occupation"`
	CustomAttributes map[string]string `json:"customAttributes"`
}

// @Summary     Cast or change a vote
// @Tags        votes
// @Accept      json
// @Produce     json
// @Param       id       path  string           true  "Poll ID"
// @Param       request  body  castVoteRequest  true  "Ballot"
// @Success     200  {object}  poll.Poll
// @Failure     400  {object}  map[string]string  "missing optionId"
// @Failure     404  {object}  map[string]string  "poll or option not found"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /votes/{id}/vote [post]
func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "id")

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "選択肢IDが必要です", err))
		return
	}
	if req.OptionID == "" {
		errorResponse(w, apperr.BadRequest("invalid_input", "選択肢IDが必要です", nil))
		return
	}

	attrs := vote.Attributes{
		Age:        req.Age,
		Gender:     req.Gender,
		Region:     req.Region,
		Occupation: req.Occupation,
		Custom:     req.CustomAttributes,
	}

	p, changed, err := h.voteSvc.Cast(r.Context(), pollID, req.OptionID, req.UserID, attrs)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.voteCh <- worker.VoteEvent{PollID: pollID, OptionID: req.OptionID, Changed: changed}:
	default:
	}

	writeJSON(w, http.StatusOK, p)
}
