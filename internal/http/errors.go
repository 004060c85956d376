package api

import (
	"errors"
	"net/http"

	"vote-board/internal/domain/comment"
	"vote-board/internal/domain/poll"
	"vote-board/internal/domain/vote"
	"vote-board/internal/platform/apperr"
)

// errorResponse translates a domain error into the wire format the original
// client expects: one localized message under "error", no internal detail.
func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Errorw("request failed", "code", appErr.Code, "err", appErr.Unwrap())
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "サーバーエラーが発生しました", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, poll.ErrNotFound):
		return apperr.NotFound("poll_not_found", "投票が見つかりません", err)
	case errors.Is(err, poll.ErrNotOwner):
		return apperr.Forbidden("not_poll_author", "この投票を削除する権限がありません", err)
	case errors.Is(err, poll.ErrInvalidInput):
		return apperr.BadRequest("invalid_input", "タイトルと2つ以上の選択肢が必要です", err)
	case errors.Is(err, vote.ErrOptionNotFound):
		return apperr.NotFound("option_not_found", "選択肢が見つかりません", err)
	case errors.Is(err, comment.ErrNotOwner):
		return apperr.Forbidden("not_comment_owner", "このコメントを操作する権限がありません", err)
	case errors.Is(err, comment.ErrNotFound):
		return apperr.NotFound("comment_not_found", "コメントが見つかりません", err)
	case errors.Is(err, comment.ErrInvalidInput):
		return apperr.BadRequest("invalid_input", "必要な情報が不足しています", err)
	default:
		return apperr.Internal("internal_error", "サーバーエラーが発生しました", err)
	}
}
