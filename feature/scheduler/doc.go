// Package scheduler runs reconciliation cycles in the background.
//
// A single goroutine counts down the poll interval and runs one cycle when it
// elapses or when TriggerNow is called. Triggers arriving while a cycle runs
// are ignored rather than queued. Every cycle publishes a Syncing result and
// then a Success or Failure on the Results channel; the status machine moves
// idle -> syncing -> success|error -> idle.
//
// Stop lets an in-flight cycle finish, then waits up to a bounded timeout for
// the loop to exit. Cycles never observe the caller's cancellation.
//
// ClientProvider builds the collaborators of a cycle lazily and caches them
// until ReloadCredentials invalidates the cache.
package scheduler
