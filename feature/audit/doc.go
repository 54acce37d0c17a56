// Package audit keeps a queryable copy of the comment audit trail.
//
// The spreadsheet audit sheet stays authoritative. When database.enabled is
// set, the orchestrator also records one Entry per processed comment here, so
// past cycles can be listed without opening the spreadsheet. Recording
// failures are logged by the caller and never fail a cycle.
package audit
