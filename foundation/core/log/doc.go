// Package log provides structured logging for rexbot.
//
// Package: log
// Title: Structured Logging
// Description: Leveled logger with immutable contextual derivation, JSON and
//              text formatters and integration with the structured error
//              type of the error package.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-28
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-28 v0.1.0: Levels, entries, JSON and text formats
// - 2026-10-02 v0.2.0: LogError maps error severity to log level
//
// Usage:
//
//	logger := log.New().
//		WithFormat(log.FormatJSON).
//		WithField("component", "store").
//		WithRequestID("req-123")
//
//	logger.Info("pattern saved", log.Field("key", "greeting"))
//	logger.ErrorWithErr("save failed", err)
//	logger.LogError(mdwErr)
package log
