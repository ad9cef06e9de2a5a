// File: doc.go
// Title: Internationalization (i18n) Package Documentation
// Description: Package i18n loads message catalogs from TOML and YAML files
//              and renders them with text/template interpolation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-07
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-07 v0.2.0: fs.FS sources, immutable locale views, no watching

/*
Package i18n provides message catalogs for user-facing text.

Each file in the source directory holds one locale, named after it
(ja.toml, en.yaml). Tables nest, and keys are addressed with dots:

	[reply]
	saved = "「{{.Key}}」を保存しました"

	m, _ := i18n.New(i18n.Options{DefaultLocale: "ja", FS: locales})
	m.T("reply.saved", map[string]interface{}{"Key": "greet"})

Lookups fall back to the default locale when the current one lacks a key.
A Manager is safe for concurrent use; WithLocale returns a view on the
same catalogs with another current locale.
*/
package i18n
