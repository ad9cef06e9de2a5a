// File: codes.go
// Title: Error Code Definitions
// Description: Error codes classifying failures of the pattern bot: pattern
//              syntax and generation, storage, transport and configuration.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-28
// Modified: 2026-10-06
//
// Change History:
// - 2026-09-28 v0.1.0: Initial codes
// - 2026-10-06 v0.2.0: Pattern codes, removed business and TCOL codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Authorization
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"

	// Database and storage
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeDuplicateEntry Code = "DUPLICATE_ENTRY"

	// Patterns
	CodePatternSyntax     Code = "PATTERN_SYNTAX"
	CodePatternGeneration Code = "PATTERN_GENERATION"
	CodePatternLimit      Code = "PATTERN_LIMIT"

	// Service and network
	CodeNetworkError          Code = "NETWORK_ERROR"
	CodeExternalServiceError  Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeUnauthorized, CodeForbidden:
		return "authorization"
	case CodeDatabaseError, CodeDuplicateEntry:
		return "database"
	case CodePatternSyntax, CodePatternGeneration, CodePatternLimit:
		return "pattern"
	case CodeNetworkError, CodeExternalServiceError, CodeServiceInitialization:
		return "service"
	case CodeConfigError, CodeMissingConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// HTTPStatus returns the HTTP status code matching this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeUnauthorized:
		return 401
	case CodeForbidden:
		return 403
	case CodeInvalidInput, CodePatternSyntax, CodePatternGeneration, CodePatternLimit:
		return 400
	case CodeDuplicateEntry:
		return 409
	case CodeTimeout:
		return 408
	case CodeDatabaseError, CodeNetworkError, CodeExternalServiceError:
		return 503
	default:
		return 500
	}
}
