// Package database opens the optional relational database used for the audit trail.
//
// It wraps GORM and supports MySQL (production) and SQLite (local runs and tests).
// The browser works without a database; Connect returns ErrDisabled when no driver
// is configured and callers fall back to a no-op audit recorder.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Optional database connection failed", zap.Error(err))
//	}
package database
