// Package cli assembles the queuectl command tree. Every command talks to
// the queue exclusively through the shared store file, so any mix of
// shells, workers, and dashboards can operate on the same queue at once.
package cli
