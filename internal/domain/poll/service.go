package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("poll not found")
	ErrNotOwner     = errors.New("user is not the poll author")
	ErrInvalidInput = errors.New("invalid poll input")
)

type Service struct {
	repo     Repository
	comments CommentCounter
}

func NewService(repo Repository, comments CommentCounter) *Service {
	return &Service{repo: repo, comments: comments}
}

// Create validates the draft, assigns ids and zeroed counters, and persists
// the poll. Option texts that are empty after trimming are dropped before the
// minimum-of-two check.
func (s *Service) Create(ctx context.Context, draft *Poll, optionTexts []string) (*Poll, error) {
	texts := make([]string, 0, len(optionTexts))
	for _, t := range optionTexts {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}

	if strings.TrimSpace(draft.Title) == "" || len(texts) < 2 {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	draft.ID = uuid.NewString()
	draft.CreatedAt = now
	draft.Options = make([]Option, 0, len(texts))
	for i, text := range texts {
		draft.Options = append(draft.Options, Option{
			ID:    fmt.Sprintf("%d-%d", now.UnixMilli(), i),
			Text:  text,
			Votes: 0,
		})
	}
	draft.VoteRecords = []VoteRecord{}

	if draft.Category == "" {
		draft.Category = SuggestCategory(draft.Title)
	}
	for i := range draft.CustomQuestions {
		if draft.CustomQuestions[i].ID == "" {
			draft.CustomQuestions[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Poll, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns public polls newest first, each annotated with its comment
// count. Private polls are reachable by id only.
func (s *Service) List(ctx context.Context) ([]Poll, error) {
	polls, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]Poll, 0, len(polls))
	for _, p := range polls {
		if p.IsPrivate {
			continue
		}
		count, err := s.comments.CountByPoll(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.CommentCount = count
		res = append(res, p)
	}
	return res, nil
}

// Delete removes the poll and its comments. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}
