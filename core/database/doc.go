// Package database handles the audit database connection and schema inspection.
//
// It wraps GORM with a dialector chosen from configuration: a local SQLite file
// by default, or MySQL when the audit trail should live on a shared server.
//
// # Connect
//
// Connect opens the database, tunes the pool for the driver, and pings it with
// the configured timeout. The audit mirror is optional; callers log a failed
// connection and carry on without it.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition so the audit
// repository can confirm its migration produced the expected columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("audit database unavailable", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "audit_entries", []string{"event_id"})
package database
