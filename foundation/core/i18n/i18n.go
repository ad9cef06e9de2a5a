// File: i18n.go
// Title: Core Internationalization Implementation
// Description: Implements the Manager that loads translations from TOML and
//              YAML files and renders them with template interpolation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-07
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2025-07-26 v0.1.1: Fixed template cache collision issue
// - 2026-10-07 v0.2.0: Load from fs.FS, per-view locale, shared template cache

package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/rexbot/foundation/core/error"
)

// Options defines configuration options for the i18n manager
type Options struct {
	DefaultLocale string // Default locale (e.g., "ja")
	Locale        string // Current locale, defaults to DefaultLocale
	FS            fs.FS  // Source of language files; overrides LocalesDir
	LocalesDir    string // Directory containing language files (default ./locales)
}

// TranslationData represents the structure of a translation file
type TranslationData map[string]interface{}

// catalog holds the loaded translations shared by all views
type catalog struct {
	translations map[string]TranslationData // locale -> translations

	mu        sync.Mutex
	templates map[string]*template.Template // locale/key -> compiled template
}

// Manager translates keys for one current locale
type Manager struct {
	cat           *catalog
	defaultLocale string
	currentLocale string
}

// New creates a new i18n manager with the specified options
func New(options Options) (*Manager, error) {
	if strings.TrimSpace(options.DefaultLocale) == "" {
		return nil, mdwerror.New("default locale cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.New")
	}

	fsys := options.FS
	if fsys == nil {
		dir := options.LocalesDir
		if dir == "" {
			dir = "./locales"
		}
		if _, err := os.Stat(dir); err != nil {
			return nil, mdwerror.Wrap(err, "locales directory not found").
				WithCode(mdwerror.CodeNotFound).
				WithOperation("i18n.New").
				WithDetail("directory", dir)
		}
		fsys = os.DirFS(dir)
	}

	translations, err := loadAll(fsys)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to load locales").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("i18n.New")
	}
	if _, ok := translations[options.DefaultLocale]; !ok {
		return nil, mdwerror.New("no translations for default locale").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.New").
			WithDetail("locale", options.DefaultLocale)
	}

	m := &Manager{
		cat: &catalog{
			translations: translations,
			templates:    make(map[string]*template.Template),
		},
		defaultLocale: options.DefaultLocale,
		currentLocale: options.DefaultLocale,
	}
	if options.Locale != "" && options.Locale != options.DefaultLocale {
		return m.WithLocale(options.Locale)
	}
	return m, nil
}

// loadAll reads every language file in the root of fsys
func loadAll(fsys fs.FS) (map[string]TranslationData, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	translations := make(map[string]TranslationData)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		locale := strings.TrimSuffix(e.Name(), ext)

		content, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", e.Name(), err)
		}

		var data TranslationData
		switch ext {
		case ".toml":
			if err := toml.Unmarshal(content, &data); err != nil {
				return nil, fmt.Errorf("failed to parse TOML file %s: %w", e.Name(), err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(content, &data); err != nil {
				return nil, fmt.Errorf("failed to parse YAML file %s: %w", e.Name(), err)
			}
		default:
			continue
		}
		if _, dup := translations[locale]; dup {
			return nil, fmt.Errorf("locale %s defined twice", locale)
		}
		translations[locale] = data
	}
	return translations, nil
}

// WithLocale returns a view of the same catalogs with another current locale
func (m *Manager) WithLocale(locale string) (*Manager, error) {
	if !m.HasLocale(locale) {
		return nil, mdwerror.New("locale not available").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.WithLocale").
			WithDetail("locale", locale)
	}
	view := *m
	view.currentLocale = locale
	return &view, nil
}

// T translates a key with optional template data. Missing keys render as
// [key].
func (m *Manager) T(key string, data ...map[string]interface{}) string {
	translation, err := m.TryT(key, data...)
	if err != nil && translation == "" {
		return "[" + key + "]"
	}
	return translation
}

// TryT translates a key and returns an error if translation fails
func (m *Manager) TryT(key string, data ...map[string]interface{}) (string, error) {
	locale, translation := m.lookup(key)
	if translation == "" {
		return "", mdwerror.New("translation not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.TryT").
			WithDetail("key", key)
	}

	if len(data) == 0 || data[0] == nil {
		return translation, nil
	}

	rendered, err := m.cat.render(locale+"/"+key, translation, data[0])
	if err != nil {
		return translation, mdwerror.Wrap(err, "template rendering failed").
			WithCode(mdwerror.CodeInternal).
			WithOperation("i18n.TryT").
			WithDetail("key", key)
	}
	return rendered, nil
}

// lookup finds key in the current locale, then the default locale
func (m *Manager) lookup(key string) (string, string) {
	if v := nestedValue(m.cat.translations[m.currentLocale], key); v != "" {
		return m.currentLocale, v
	}
	if m.currentLocale != m.defaultLocale {
		if v := nestedValue(m.cat.translations[m.defaultLocale], key); v != "" {
			return m.defaultLocale, v
		}
	}
	return "", ""
}

// nestedValue retrieves a nested value from translations using dot notation
func nestedValue(data map[string]interface{}, key string) string {
	keys := strings.Split(key, ".")
	current := data

	for i, k := range keys {
		value, ok := current[k]
		if !ok {
			return ""
		}
		if i == len(keys)-1 {
			switch value.(type) {
			case map[string]interface{}, TranslationData:
				return ""
			}
			return fmt.Sprintf("%v", value)
		}

		switch next := value.(type) {
		case map[string]interface{}:
			current = next
		case TranslationData:
			current = next
		default:
			return ""
		}
	}
	return ""
}

func (c *catalog) render(cacheKey, text string, data map[string]interface{}) (string, error) {
	c.mu.Lock()
	tmpl, ok := c.templates[cacheKey]
	if !ok {
		var err error
		tmpl, err = template.New(cacheKey).Option("missingkey=error").Parse(text)
		if err != nil {
			c.mu.Unlock()
			return "", fmt.Errorf("template compilation failed: %w", err)
		}
		c.templates[cacheKey] = tmpl
	}
	c.mu.Unlock()

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return result.String(), nil
}

// Locale returns the current locale
func (m *Manager) Locale() string {
	return m.currentLocale
}

// DefaultLocale returns the default locale
func (m *Manager) DefaultLocale() string {
	return m.defaultLocale
}

// Locales returns the available locales, sorted
func (m *Manager) Locales() []string {
	locales := make([]string, 0, len(m.cat.translations))
	for l := range m.cat.translations {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// HasLocale reports whether translations exist for locale
func (m *Manager) HasLocale(locale string) bool {
	_, ok := m.cat.translations[locale]
	return ok
}

// HasTranslation reports whether key resolves in the current locale or
// the default locale
func (m *Manager) HasTranslation(key string) bool {
	_, v := m.lookup(key)
	return v != ""
}

// Keys returns all keys of the locale in dot notation, sorted
func (m *Manager) Keys(locale string) []string {
	var keys []string
	collectKeys(m.cat.translations[locale], "", &keys)
	sort.Strings(keys)
	return keys
}

func collectKeys(data map[string]interface{}, prefix string, keys *[]string) {
	for k, v := range data {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]interface{}:
			collectKeys(nested, full, keys)
			continue
		case TranslationData:
			collectKeys(nested, full, keys)
			continue
		}
		*keys = append(*keys, full)
	}
}

func (m *Manager) String() string {
	return fmt.Sprintf("i18n.Manager{locale: %s, default: %s, locales: %v}",
		m.currentLocale, m.defaultLocale, m.Locales())
}
