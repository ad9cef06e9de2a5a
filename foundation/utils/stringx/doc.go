// File: doc.go
// Title: Package Documentation for stringx
// Description: Package stringx provides string helpers that measure text
//              the way a reader sees it: in grapheme clusters and display
//              columns instead of bytes or runes.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-07
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-07 v0.3.0: Reduced to grapheme-aware truncation and padding

// Package stringx provides grapheme-aware string helpers.
//
// Length limits on user-visible text (chat replies, quoted input in error
// messages, table columns) count grapheme clusters, so a flag emoji or a
// letter with combining marks is one unit and is never split:
//
//	stringx.Truncate("🇯🇵🇯🇵🇯🇵", 2, "…") // "🇯🇵…"
//	stringx.Length("é")           // 1
//
// Padding uses display columns, so East Asian wide characters align in
// fixed-width tables:
//
//	stringx.PadRight("名前", 6, ' ') // "名前  "
package stringx
