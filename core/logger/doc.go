// Package logger provides a structured logging facility based on Zap.
//
// It builds a configured logger for development (debug level, ISO8601 timestamps)
// or production, with console or JSON encoding, and integrates with Fiber.
//
// # Context Awareness
//
// Every request carries a RayID (request id). WithRayID extracts it from the Fiber
// context and attaches it to the log entry so all logs of one request correlate.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Upload failed", zap.Error(err))
package logger
