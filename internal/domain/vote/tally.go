package vote

import (
	"math"

	"vote-board/internal/domain/poll"
)

// TotalVotes sums the denormalized option counters.
func TotalVotes(options []poll.Option) int {
	total := 0
	for _, o := range options {
		total += o.Votes
	}
	return total
}

// Percentage expresses votes as a share of total in whole points, rounding
// half up on the quotient. Each option is rounded independently, so the
// shares of a poll may not sum to exactly 100.
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
