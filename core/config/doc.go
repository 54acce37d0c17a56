// Package config provides configuration management for the comment sync engine.
//
// It loads an optional .env file with godotenv, then lets Viper resolve every
// key from the environment. Defaults come from the `default` struct tags of
// each section, so a key is known to Viper even when nothing sets it.
//
// # Configuration Structure
//
// The Config struct is divided into subsections owned by the packages using them:
//   - Gmail: mailbox, OAuth files and search query (feature/comments)
//   - Sheet: spreadsheet id, range and column layout (feature/ledger)
//   - Match: fuzzy threshold (core/reconcile)
//   - Poll: CLI and scheduler intervals (feature/scheduler)
//   - State: processed state file (core/state)
//   - Log, Server, Storage, Database: ambient settings
//
// Environment names are the upper-cased key with dots replaced by underscores,
// e.g. GMAIL_USER_EMAIL or SHEET_TITLE_COLUMN.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".env")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err // wraps config.ErrInvalidConfig
//	}
package config
