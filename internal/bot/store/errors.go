// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     store
// Description: Error definitions for pattern storage
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

package store

import "errors"

var (
	// Lookup errors
	ErrNotFound     = errors.New("pattern not found")
	ErrDuplicateKey = errors.New("pattern key already exists")

	// Validation errors
	ErrInvalidKey     = errors.New("invalid pattern key")
	ErrMissingPattern = errors.New("pattern is required")
	ErrMissingOwner   = errors.New("owner user ID is required")
)
