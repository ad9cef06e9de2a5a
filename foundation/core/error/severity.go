// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification used to pick log levels for errors.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-28
// Modified: 2026-10-06
//
// Change History:
// - 2026-09-28 v0.1.0: Initial severity levels
// - 2026-10-06 v0.2.0: Mapping for pattern codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers user mistakes such as a malformed pattern
	SeverityLow Severity = iota

	// SeverityMedium covers failures with an obvious retry path
	SeverityMedium

	// SeverityHigh covers failures of a dependency (database, chat API)
	SeverityHigh

	// SeverityCritical covers failures that stop the process
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines the severity level for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeServiceInitialization, CodeMissingConfig, CodeConfigError:
		return SeverityCritical

	case CodeDatabaseError, CodeUnauthorized, CodeExternalServiceError:
		return SeverityHigh

	case CodeNetworkError, CodeTimeout, CodeInternal:
		return SeverityMedium

	case CodeInvalidInput, CodeNotFound, CodeForbidden, CodeDuplicateEntry,
		CodePatternSyntax, CodePatternGeneration, CodePatternLimit:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
