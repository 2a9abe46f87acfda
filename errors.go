package queuectl

import "errors"

var (
	// Store errors.
	ErrLockTimeout  = errors.New("queuectl: could not acquire store lock")
	ErrCorruptStore = errors.New("queuectl: store file is corrupt")

	// Not found errors.
	ErrJobNotFound = errors.New("queuectl: job not found")

	// Conflict errors.
	ErrJobAlreadyExists = errors.New("queuectl: job already exists")

	// State errors.
	ErrInvalidTransition = errors.New("queuectl: invalid state transition")

	// Config errors.
	ErrUnknownConfigKey = errors.New("queuectl: unknown config key")
	ErrInvalidConfigVal = errors.New("queuectl: invalid config value")
)
