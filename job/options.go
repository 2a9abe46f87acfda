package job

import "time"

// Option configures a job at enqueue time.
type Option func(*Job)

// WithPriority sets the job priority. Higher runs first.
func WithPriority(p int) Option {
	return func(j *Job) { j.Priority = p }
}

// WithMaxRetries sets the attempt budget. Zero is a valid budget: the job
// dead-letters on its first failed attempt. Negative values are ignored.
func WithMaxRetries(n int) Option {
	return func(j *Job) {
		if n >= 0 {
			j.MaxRetries = n
		}
	}
}

// WithTimeout bounds each execution attempt.
func WithTimeout(d time.Duration) Option {
	return func(j *Job) {
		if d > 0 {
			j.Timeout = d
		}
	}
}

// WithRunAt schedules the job to become eligible at t.
func WithRunAt(t time.Time) Option {
	return func(j *Job) { j.RunAt = t }
}
