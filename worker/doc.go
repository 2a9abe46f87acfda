// Package worker provides the job execution engine — an Executor that
// spawns a job's shell command with timeout enforcement, and a Pool that
// supervises N execution loops polling the shared store for work.
package worker
