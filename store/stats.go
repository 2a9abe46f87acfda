package store

import (
	"context"
	"sort"
	"time"

	"github.com/HariniKartheeswaran/queuectl/id"
	"github.com/HariniKartheeswaran/queuectl/job"
)

// WorkerStatus describes one active claim: which worker is running which
// command right now.
type WorkerStatus struct {
	WorkerID id.WorkerID `json:"worker_id"`
	JobID    id.JobID    `json:"job_id"`
	Command  string      `json:"command"`
	Since    time.Time   `json:"since"`
}

// Stats summarizes the queue for `queuectl status` and the dashboard.
type Stats struct {
	Total         int               `json:"total"`
	ByState       map[job.State]int `json:"by_state"`
	SuccessRate   float64           `json:"success_rate"`
	AvgExecution  time.Duration     `json:"avg_execution_time"`
	ActiveWorkers []WorkerStatus    `json:"active_workers"`
}

// Stats computes per-state counts, the success rate over all jobs, the
// average execution time of completed jobs, and the set of active workers
// with their current command.
func (s *FileStore) Stats(_ context.Context) (Stats, error) {
	stats := Stats{ByState: make(map[job.State]int)}
	for _, st := range job.States() {
		stats.ByState[st] = 0
	}

	err := s.view(func(snap *snapshot) error {
		var execTotal time.Duration
		var execCount int

		for _, j := range snap.Jobs {
			stats.Total++
			stats.ByState[j.State]++

			if j.State == job.StateCompleted && j.ExecutionTime > 0 {
				execTotal += j.ExecutionTime
				execCount++
			}
			if j.State == job.StateRunning && !j.ClaimedBy.IsZero() {
				since := j.UpdatedAt
				if j.StartedAt != nil {
					since = *j.StartedAt
				}
				stats.ActiveWorkers = append(stats.ActiveWorkers, WorkerStatus{
					WorkerID: j.ClaimedBy,
					JobID:    j.ID,
					Command:  j.Command,
					Since:    since,
				})
			}
		}

		if stats.Total > 0 {
			stats.SuccessRate = float64(stats.ByState[job.StateCompleted]) / float64(stats.Total) * 100
		}
		if execCount > 0 {
			stats.AvgExecution = execTotal / time.Duration(execCount)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	sort.Slice(stats.ActiveWorkers, func(i, k int) bool {
		return stats.ActiveWorkers[i].WorkerID < stats.ActiveWorkers[k].WorkerID
	})
	return stats, nil
}
