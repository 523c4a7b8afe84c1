package status

import "github.com/nhle/workstatus/internal/model"

// DedupeReviews keeps the latest review per reviewer, in the order each
// reviewer was first seen. A stored verdict is only replaced by a review
// with a strictly later timestamp, so on a tie the first one seen wins.
func DedupeReviews(reviews []model.Review) []model.ReviewVerdict {
	index := make(map[string]int, len(reviews))
	verdicts := make([]model.ReviewVerdict, 0, len(reviews))

	for _, r := range reviews {
		i, seen := index[r.Reviewer]
		if !seen {
			index[r.Reviewer] = len(verdicts)
			verdicts = append(verdicts, model.ReviewVerdict{
				Reviewer:    r.Reviewer,
				State:       r.State,
				SubmittedAt: r.SubmittedAt,
			})
			continue
		}
		if r.SubmittedAt.After(verdicts[i].SubmittedAt) {
			verdicts[i].State = r.State
			verdicts[i].SubmittedAt = r.SubmittedAt
		}
	}

	return verdicts
}

// PartitionVerdicts splits reviewers into approvers and change
// requesters. Any other final state is left out.
func PartitionVerdicts(verdicts []model.ReviewVerdict) model.ReviewSummary {
	summary := model.ReviewSummary{
		Approved:         []string{},
		ChangesRequested: []string{},
	}
	for _, v := range verdicts {
		switch v.State {
		case model.ReviewApproved:
			summary.Approved = append(summary.Approved, v.Reviewer)
		case model.ReviewChangesRequested:
			summary.ChangesRequested = append(summary.ChangesRequested, v.Reviewer)
		}
	}
	return summary
}

// SummarizeReviews deduplicates reviews and partitions the result.
func SummarizeReviews(reviews []model.Review) model.ReviewSummary {
	return PartitionVerdicts(DedupeReviews(reviews))
}
