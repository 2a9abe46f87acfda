package store

import (
	"sort"
	"time"

	"github.com/HariniKartheeswaran/queuectl/job"
)

// selectNext returns the single highest-ranked claimable job, or nil when
// none is eligible. Scheduled jobs whose run_at has elapsed are promoted to
// pending as part of the same scan; because this runs inside a claim
// transaction, the promotion persists with the claim.
//
// Ranking: priority descending, then created_at ascending for FIFO
// fairness within equal priority.
func selectNext(snap *snapshot, now time.Time) *job.Job {
	candidates := make([]*job.Job, 0, len(snap.Jobs))
	for _, j := range snap.Jobs {
		if j.State == job.StateScheduled && !j.RunAt.After(now) {
			if err := j.Promote(now); err != nil {
				continue
			}
		}
		if j.Eligible(now) {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, k int) bool {
		if candidates[i].Priority != candidates[k].Priority {
			return candidates[i].Priority > candidates[k].Priority
		}
		if !candidates[i].CreatedAt.Equal(candidates[k].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[k].CreatedAt)
		}
		// Deterministic order for jobs created in the same instant.
		return candidates[i].ID < candidates[k].ID
	})
	return candidates[0]
}
