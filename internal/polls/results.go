package polls

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/BethelHills/Alx-Polly/internal/models"
)

// OptionResult is one option's tally within a results payload.
type OptionResult struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Count      int       `json:"count"`
	Percentage int       `json:"percentage"`
}

// Results is the aggregate outcome of a poll.
type Results struct {
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

// ComputeResults tallies the denormalized option counters. Percentages are
// rounded half away from zero; with zero total every option reports 0.
// Options are ordered by descending count, ties broken by ascending position
// so equal options keep their creation order.
func ComputeResults(options []models.PollOption) Results {
	total := 0
	for _, o := range options {
		total += o.VoteCount
	}

	sorted := make([]models.PollOption, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].VoteCount != sorted[j].VoteCount {
			return sorted[i].VoteCount > sorted[j].VoteCount
		}
		return sorted[i].Position < sorted[j].Position
	})

	out := Results{TotalVotes: total, Options: make([]OptionResult, 0, len(sorted))}
	for _, o := range sorted {
		pct := 0
		if total > 0 {
			pct = int(math.Round(100 * float64(o.VoteCount) / float64(total)))
		}
		out.Options = append(out.Options, OptionResult{
			ID:         o.ID,
			Text:       o.Text,
			Count:      o.VoteCount,
			Percentage: pct,
		})
	}
	return out
}
