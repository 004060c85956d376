package comment

import (
	"context"
	"time"
)

// Comment belongs to a poll and forms a two-level thread: top-level entries
// and direct replies via ParentID. Likes is a set of user ids.
type Comment struct {
	ID              string     `json:"id"`
	VoteID          string     `json:"voteId"`
	UserID          string     `json:"userId"`
	UserName        string     `json:"userName"`
	UserAvatar      string     `json:"userAvatar"`
	Content         string     `json:"content"`
	ParentID        string     `json:"parentId,omitempty"`
	Likes           []string   `json:"likes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
	VoteChanged     bool       `json:"voteChanged"`
	VotedOptionText string     `json:"votedOptionText,omitempty"`
	NeedsReply      bool       `json:"needsReply"`
}

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByPoll(ctx context.Context, voteID string) ([]Comment, error)
	Update(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
	CountByPoll(ctx context.Context, voteID string) (int, error)
}
