package vote

import (
	"testing"

	"vote-board/internal/domain/poll"
)

func TestTotalVotes(t *testing.T) {
	opts := []poll.Option{{Votes: 3}, {Votes: 0}, {Votes: 7}}
	if got := TotalVotes(opts); got != 10 {
		t.Fatalf("TotalVotes = %d, want 10", got)
	}
	if got := TotalVotes(nil); got != 0 {
		t.Fatalf("TotalVotes(nil) = %d, want 0", got)
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		votes, total, want int
	}{
		{0, 0, 0},
		{3, 10, 30},
		{1, 3, 33},  // 33.33 rounds down
		{2, 3, 67},  // 66.67 rounds up
		{1, 2, 50},
		{1, 8, 13},  // 12.5 rounds half up
		{10, 10, 100},
	}

	for _, c := range cases {
		if got := Percentage(c.votes, c.total); got != c.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", c.votes, c.total, got, c.want)
		}
	}
}

// Per-option rounding is independent; shares are allowed to miss 100.
func TestPercentageSumNotNormalized(t *testing.T) {
	total := 3
	sum := Percentage(1, total) + Percentage(1, total) + Percentage(1, total)
	if sum != 99 {
		t.Fatalf("expected independent rounding to sum to 99, got %d", sum)
	}
}
