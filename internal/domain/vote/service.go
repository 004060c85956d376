package vote

import (
	"context"
	"errors"
	"time"

	"vote-board/internal/domain/poll"
)

var ErrOptionNotFound = errors.New("option not found")

// Attributes are the voter-supplied answers attached to a ballot: the four
// legacy demographic fields plus answers to the poll's custom questions.
type Attributes struct {
	Age        string
	Gender     string
	Region     string
	Occupation string
	Custom     map[string]string
}

type Service struct {
	polls poll.Repository
}

func NewService(polls poll.Repository) *Service {
	return &Service{polls: polls}
}

// Cast records a ballot, replacing the voter's previous one on this poll if
// present: the old option's counter is decremented (no zero floor, matching
// the stored data's semantics) and the old record dropped before the new one
// is applied. Returns the updated poll and whether an earlier ballot was
// replaced.
//
// The update is a whole-row read-modify-write without a version token, so
// two concurrent casts on the same poll can lose one increment. Known
// limitation of the storage layout.
func (s *Service) Cast(ctx context.Context, pollID, optionID, userID string, attrs Attributes) (*poll.Poll, bool, error) {
	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, false, err
	}

	target := -1
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, false, ErrOptionNotFound
	}

	changed := false
	for _, r := range p.VoteRecords {
		if r.UserID != userID {
			continue
		}
		changed = true
		for i := range p.Options {
			if p.Options[i].ID == r.OptionID {
				p.Options[i].Votes--
				break
			}
		}
	}
	if changed {
		kept := p.VoteRecords[:0]
		for _, r := range p.VoteRecords {
			if r.UserID != userID {
				kept = append(kept, r)
			}
		}
		p.VoteRecords = kept
	}

	p.Options[target].Votes++
	p.VoteRecords = append(p.VoteRecords, poll.VoteRecord{
		UserID:           userID,
		OptionID:         optionID,
		Age:              attrs.Age,
		Gender:           attrs.Gender,
		Region:           attrs.Region,
		Occupation:       attrs.Occupation,
		CustomAttributes: attrs.Custom,
		Timestamp:        time.Now(),
	})

	if err := s.polls.Update(ctx, p); err != nil {
		return nil, false, err
	}
	return p, changed, nil
}
