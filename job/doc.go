// Package job defines the Job entity and its lifecycle state machine.
//
// The state machine is pure: every transition is a method on *Job that
// validates the current state, mutates the record, and returns
// queuectl.ErrInvalidTransition for anything the lifecycle does not allow.
// Persistence and locking are the store's concern; callers are expected to
// apply transitions inside a single store transaction so that selection and
// mutation are indivisible.
package job
