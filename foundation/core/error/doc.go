// Package error provides structured errors for rexbot.
//
// Package: error
// Title: Structured Error Handling
// Description: Errors carrying a code, a severity, the failing operation and
//              free-form details. Wrapping keeps the cause reachable through
//              errors.Is and errors.As.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-28
// Modified: 2026-10-06
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation with codes and wrapping
// - 2026-10-06 v0.2.0: Pattern codes, severity derived from code
//
// Usage:
//
//	import mdwerror "github.com/msto63/rexbot/foundation/core/error"
//
//	err := mdwerror.Wrap(err, "failed to save pattern").
//		WithCode(mdwerror.CodeDatabaseError).
//		WithOperation("store.Save").
//		WithDetail("key", key)
//
//	if mdwerror.HasCode(err, mdwerror.CodeNotFound) {
//		...
//	}
package error
