// Package dlq provides the dead letter queue for jobs that have exhausted
// their retry budget. It supports inspection, retry, and purging.
//
// Dead-lettered jobs are not moved anywhere: they stay in the shared store
// under [job.StateDeadLetter], and this package is a thin service layer
// over the job store that scopes operations to that state.
//
// # Service
//
//	svc := dlq.NewService(store)
//
//	// Inspect the queue.
//	entries, _ := svc.List(ctx, 50)
//	n, _ := svc.Count(ctx)
//
//	// Give a job a fresh retry budget and put it back in line.
//	retried, _ := svc.Retry(ctx, jobID)
//
// Retry resets the attempt counter to zero and clears the recorded error,
// so the job competes for workers like a newly enqueued one.
package dlq
