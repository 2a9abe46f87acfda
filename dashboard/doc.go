// Package dashboard serves a read-only web view of the queue: an HTML
// overview page plus a small JSON API. It never writes to the store, so it
// can run alongside workers without contending for the queue lock.
package dashboard
