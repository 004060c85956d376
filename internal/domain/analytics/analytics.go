// Package analytics cross-tabulates poll outcomes by respondent attributes.
// Every respondent answer is treated as a (questionId, answerValue) pair:
// the four legacy demographic fields are pre-defined system questions, so
// fixed and custom attributes share one breakdown path.
package analytics

import (
	"vote-board/internal/domain/poll"
	"vote-board/internal/domain/vote"
)

type OptionShare struct {
	OptionID   string `json:"optionId"`
	OptionText string `json:"optionText"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Bucket groups the vote records sharing one answer value. Percentage
// denominators are bucket-local, not poll-global.
type Bucket struct {
	Value   string        `json:"value"`
	Total   int           `json:"total"`
	Options []OptionShare `json:"options"`
}

type QuestionBreakdown struct {
	QuestionID string   `json:"questionId"`
	Question   string   `json:"question"`
	Buckets    []Bucket `json:"buckets"`
}

type question struct {
	id      string
	label   string
	answers []string
}

var systemQuestions = []struct {
	id    string
	label string
}{
	{"age", "年齢層"},
	{"gender", "性別"},
	{"region", "地域"},
	{"occupation", "職業"},
}

func answerFor(r *poll.VoteRecord, questionID string) string {
	switch questionID {
	case "age":
		return r.Age
	case "gender":
		return r.Gender
	case "region":
		return r.Region
	case "occupation":
		return r.Occupation
	default:
		return r.CustomAttributes[questionID]
	}
}

// Breakdown computes the per-question, per-answer-bucket option shares for a
// poll. Polls with custom questions break down by those; all other polls by
// the demographic system questions, enumerating distinct observed values in
// first-seen order. Empty buckets and zero-count options are omitted.
func Breakdown(p *poll.Poll) []QuestionBreakdown {
	var questions []question
	if len(p.CustomQuestions) > 0 {
		for _, cq := range p.CustomQuestions {
			questions = append(questions, question{id: cq.ID, label: cq.Question, answers: cq.Options})
		}
	} else {
		for _, sq := range systemQuestions {
			seen := make(map[string]bool)
			var answers []string
			for i := range p.VoteRecords {
				v := answerFor(&p.VoteRecords[i], sq.id)
				if v == "" || seen[v] {
					continue
				}
				seen[v] = true
				answers = append(answers, v)
			}
			if len(answers) == 0 {
				continue
			}
			questions = append(questions, question{id: sq.id, label: sq.label, answers: answers})
		}
	}

	out := make([]QuestionBreakdown, 0, len(questions))
	for _, q := range questions {
		qb := QuestionBreakdown{QuestionID: q.id, Question: q.label}
		for _, answer := range q.answers {
			total := 0
			for i := range p.VoteRecords {
				if answerFor(&p.VoteRecords[i], q.id) == answer {
					total++
				}
			}
			if total == 0 {
				continue
			}

			b := Bucket{Value: answer, Total: total}
			for _, opt := range p.Options {
				count := 0
				for i := range p.VoteRecords {
					r := &p.VoteRecords[i]
					if r.OptionID == opt.ID && answerFor(r, q.id) == answer {
						count++
					}
				}
				if count == 0 {
					continue
				}
				b.Options = append(b.Options, OptionShare{
					OptionID:   opt.ID,
					OptionText: opt.Text,
					Count:      count,
					Percentage: vote.Percentage(count, total),
				})
			}
			qb.Buckets = append(qb.Buckets, b)
		}
		out = append(out, qb)
	}
	return out
}
