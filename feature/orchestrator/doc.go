// Package orchestrator runs one reconciliation cycle.
//
// RunOnce loads the processed state, snapshots the ledger, fetches pending
// comment events, binds each to a row and writes the comment into it, appends
// one audit row per event and saves the state. A failing collaborator aborts
// the cycle before the state is saved, so the affected events are retried on
// the next run (at-least-once delivery into the ledger).
package orchestrator
