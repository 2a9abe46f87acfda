package queuectl

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Config keys accepted by `queuectl config set`. Values are persisted as
// strings inside the store file and re-read on every claim and enqueue, so
// changes take effect without restarting workers.
const (
	KeyMaxRetries   = "max-retries"
	KeyBackoffBase  = "backoff-base"
	KeyTimeout      = "timeout"
	KeyPollInterval = "poll-interval"
)

// Settings holds the tunable queue defaults shared by all processes.
type Settings struct {
	// MaxRetries is the default retry ceiling for new jobs.
	MaxRetries int

	// BackoffBase is the base of the exponential retry delay:
	// a job that has failed n attempts waits BackoffBase^n seconds.
	BackoffBase int

	// Timeout is the default per-attempt wall-clock limit applied to
	// jobs enqueued without an explicit timeout. Zero means unlimited.
	Timeout time.Duration

	// PollInterval is how long an idle worker sleeps between claims.
	PollInterval time.Duration
}

// DefaultSettings returns the compiled-in defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxRetries:   3,
		BackoffBase:  2,
		Timeout:      300 * time.Second,
		PollInterval: 1 * time.Second,
	}
}

// Set validates value and assigns it to the named key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyMaxRetries:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfigVal, key, value)
		}
		s.MaxRetries = n
	case KeyBackoffBase:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfigVal, key, value)
		}
		s.BackoffBase = n
	case KeyTimeout:
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfigVal, key, value)
		}
		s.Timeout = time.Duration(secs) * time.Second
	case KeyPollInterval:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfigVal, key, value)
		}
		s.PollInterval = time.Duration(f * float64(time.Second))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConfigKey, key)
	}
	return nil
}

// Get returns the string form of the named key.
func (s Settings) Get(key string) (string, error) {
	m := s.Map()
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownConfigKey, key)
	}
	return v, nil
}

// Map returns all settings in their persisted string form.
func (s Settings) Map() map[string]string {
	return map[string]string{
		KeyMaxRetries:   strconv.Itoa(s.MaxRetries),
		KeyBackoffBase:  strconv.Itoa(s.BackoffBase),
		KeyTimeout:      strconv.Itoa(int(s.Timeout / time.Second)),
		KeyPollInterval: strconv.FormatFloat(s.PollInterval.Seconds(), 'f', -1, 64),
	}
}

// Apply overlays stored values on top of s. Unknown keys and values that
// fail validation are skipped: a hand-edited store file must not make the
// whole queue unusable.
func (s *Settings) Apply(stored map[string]string) {
	for key, value := range stored {
		_ = s.Set(key, value)
	}
}

// Keys lists the valid config keys in stable order.
func Keys() []string {
	keys := []string{KeyMaxRetries, KeyBackoffBase, KeyTimeout, KeyPollInterval}
	sort.Strings(keys)
	return keys
}
