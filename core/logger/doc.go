// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the monitor API.
//
// # Correlation
//
// WithCycleID tags every entry written during one reconciliation cycle, so a
// poll, its matches and its ledger writes can be read back together.
// WithRayID extracts the RayID from a Fiber context for monitor requests.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
//
//	l := logger.WithCycleID(log, cycleID)
//	l.Warn("No matching row", zap.String("file", name))
package logger
