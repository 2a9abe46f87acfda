// Package queuectl implements a persistent, single-node background job
// queue. Clients enqueue shell commands; independent worker processes
// claim and execute them with priority ordering, scheduled execution,
// per-job timeouts, exponential-backoff retries, and a dead letter queue
// for jobs that exhaust their retry budget.
//
// All state lives in one JSON file. Mutual exclusion between worker
// processes is provided by an advisory file lock, and durability by
// write-to-temp-then-rename, so the queue needs no database server and
// survives process restarts.
//
// The root package holds the shared error values and the tunable queue
// Settings. Subsystems live in their own packages:
//
//   - id: typed job and worker identifiers
//   - job: the Job entity and its lifecycle state machine
//   - backoff: retry delay strategies
//   - store: the durable file store and claim protocol
//   - worker: the execution loop and pool supervisor
//   - dlq: dead letter queue operations
//   - dashboard: read-only web monitor
//   - config: process configuration and logging
//   - cli: the queuectl command tree
package queuectl
