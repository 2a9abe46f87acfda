// Package id defines the identifier types used across queuectl.
//
// Job identifiers are random UUIDs. Worker identifiers embed the hostname
// and process id so that claims left behind by a crashed worker process can
// be told apart in `queuectl status` output.
package id

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// JobID uniquely identifies a job for the lifetime of the store.
type JobID string

// NewJobID generates a new random job identifier.
func NewJobID() JobID {
	return JobID(uuid.NewString())
}

// ParseJobID validates s as a job identifier.
func ParseJobID(s string) (JobID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("id: parse job id %q: %w", s, err)
	}
	return JobID(s), nil
}

// String returns the identifier as a plain string.
func (j JobID) String() string { return string(j) }

// IsZero reports whether the identifier is unset.
func (j JobID) IsZero() bool { return j == "" }

// WorkerID identifies one execution loop. The format is
// "worker-<host>-<pid>-<n>" for loop n of a pool, so identities are
// distinct across independent worker processes sharing one store.
type WorkerID string

// NewWorkerID builds the identity for loop n of the calling process.
func NewWorkerID(n int) WorkerID {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return WorkerID(fmt.Sprintf("worker-%s-%d-%d", host, os.Getpid(), n))
}

// String returns the identifier as a plain string.
func (w WorkerID) String() string { return string(w) }

// IsZero reports whether the identifier is unset.
func (w WorkerID) IsZero() bool { return w == "" }
