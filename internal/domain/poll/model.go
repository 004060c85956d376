package poll

import (
	"context"
	"time"
)

type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// CustomQuestion is a poll-author-defined survey question answered at vote
// time, separate from the poll's own options.
type CustomQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// VoteRecord is the ballot receipt for one voter. The demographic fields are
// the legacy fixed attributes; CustomAttributes maps question id to the
// chosen answer text.
type VoteRecord struct {
	UserID           string            `json:"userId"`
	OptionID         string            `json:"optionId"`
	Age              string            `json:"age,omitempty"`
	Gender           string            `json:"gender,omitempty"`
	Region           string            `json:"region,omitempty"`
	Occupation       string            `json:"occupation,omitempty"`
	CustomAttributes map[string]string `json:"customAttributes,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Poll is the aggregate root: options and vote records are embedded, not
// independently addressable.
type Poll struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Options         []Option         `json:"options"`
	CreatedAt       time.Time        `json:"createdAt"`
	Category        string           `json:"category,omitempty"`
	AuthorID        string           `json:"authorId,omitempty"`
	AuthorName      string           `json:"authorName,omitempty"`
	VoteRecords     []VoteRecord     `json:"voteRecords"`
	ShowAnalytics   bool             `json:"showAnalytics"`
	CommentCount    int              `json:"commentCount"`
	IsPrivate       bool             `json:"isPrivate,omitempty"`
	CustomQuestions []CustomQuestion `json:"customQuestions,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, p *Poll) error
	GetByID(ctx context.Context, id string) (*Poll, error)
	List(ctx context.Context) ([]Poll, error)
	Update(ctx context.Context, p *Poll) error
	// Delete removes the poll and all of its comments.
	Delete(ctx context.Context, id string) error
}

// CommentCounter is the slice of the comment store the poll service needs
// for annotating listings.
type CommentCounter interface {
	CountByPoll(ctx context.Context, pollID string) (int, error)
}
