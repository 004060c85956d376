package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("comment not found")
	ErrNotOwner     = errors.New("user does not own the comment")
	ErrInvalidInput = errors.New("invalid comment input")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByPoll(ctx context.Context, voteID string) ([]Comment, error) {
	return s.repo.ListByPoll(ctx, voteID)
}

// Create requires a user id, a display name and non-empty content. The
// caller's identity is self-asserted; there is no account system to verify
// it against.
func (s *Service) Create(ctx context.Context, draft *Comment) (*Comment, error) {
	if draft.UserID == "" || draft.UserName == "" || strings.TrimSpace(draft.Content) == "" {
		return nil, ErrInvalidInput
	}

	draft.ID = uuid.NewString()
	draft.Likes = []string{}
	draft.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Edit updates the content of the caller's own comment and stamps the
// modification time.
func (s *Service) Edit(ctx context.Context, id, userID, content string) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrNotOwner
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	c.Content = content
	c.UpdatedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete hard-deletes the caller's own comment.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

// ToggleLike flips the caller's membership in the like set.
func (s *Service) ToggleLike(ctx context.Context, id, userID string) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := false
	kept := make([]string, 0, len(c.Likes))
	for _, uid := range c.Likes {
		if uid == userID {
			liked = true
			continue
		}
		kept = append(kept, uid)
	}
	if liked {
		c.Likes = kept
	} else {
		c.Likes = append(c.Likes, userID)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetNeedsReply records whether the comment's author wants replies.
func (s *Service) SetNeedsReply(ctx context.Context, id string, needsReply bool) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.NeedsReply = needsReply
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
