package handler

import (
	"embed"
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/msto63/rexbot/foundation/core/i18n"
	"github.com/msto63/rexbot/foundation/utils/stringx"
	"github.com/msto63/rexbot/internal/bot/command"
	"github.com/msto63/rexbot/internal/bot/store"
	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/generator"
	"github.com/msto63/rexbot/pkg/pattern/parser"
)

// DefaultLocale is the reply language when none is configured
const DefaultLocale = "ja"

//go:embed locales/*.toml
var localeFiles embed.FS

// catalog loads the embedded reply messages once
var catalog = sync.OnceValues(func() (*i18n.Manager, error) {
	sub, err := fs.Sub(localeFiles, "locales")
	if err != nil {
		return nil, err
	}
	return i18n.New(i18n.Options{DefaultLocale: DefaultLocale, FS: sub})
})

// Locales lists the reply languages
func Locales() []string {
	m, err := catalog()
	if err != nil {
		return nil
	}
	return m.Locales()
}

type vars = map[string]interface{}

var helpKinds = []command.Kind{
	command.KindGenerate, command.KindSave, command.KindCall, command.KindRemove,
	command.KindList, command.KindJoin, command.KindLeave, command.KindHelp,
}

func (h *Handler) usageLine(k command.Kind) string {
	words := command.Aliases(k)
	for i, w := range words {
		words[i] = h.parser.Prefix() + w
	}
	return h.msgs.T("help.usage."+k.String(), vars{"Words": strings.Join(words, " | ")})
}

func (h *Handler) help() string {
	var b strings.Builder
	b.WriteString(h.msgs.T("help.header"))
	b.WriteByte('\n')
	for _, k := range helpKinds {
		b.WriteString("- `" + h.usageLine(k) + "`\n  ")
		b.WriteString(h.msgs.T("help.description." + k.String()))
		b.WriteByte('\n')
	}
	b.WriteString(h.msgs.T("help.syntax"))
	return b.String()
}

// describe turns an error into a reply
func (h *Handler) describe(err error) string {
	prefix := vars{"Prefix": h.parser.Prefix()}

	var perr *parser.ParseError
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		return h.msgs.T("error.unknown_command", prefix)
	case errors.Is(err, command.ErrMissingArgument):
		return h.msgs.T("error.missing_argument", prefix)
	case errors.As(err, &perr):
		args := vars{"Position": perr.Offset + 1, "Reason": perr.Reason}
		if perr.Remainder == "" {
			return h.msgs.T("error.syntax_at_end", args)
		}
		args["Near"] = snippet(perr.Remainder)
		return h.msgs.T("error.syntax_near", args)
	case errors.Is(err, pattern.ErrPatternTooLong):
		return h.msgs.T("error.pattern_too_long")
	case errors.Is(err, pattern.ErrTooDeep):
		return h.msgs.T("error.too_deep")
	case errors.Is(err, pattern.ErrOutputTooLong):
		return h.msgs.T("error.output_too_long")
	case errors.Is(err, generator.ErrInvalidEscape):
		return h.msgs.T("error.invalid_escape", vars{"Detail": generationDetail(err)})
	case errors.Is(err, generator.ErrInvalidCodepoint):
		return h.msgs.T("error.invalid_codepoint")
	case errors.Is(err, generator.ErrEmptyClass):
		return h.msgs.T("error.empty_class")
	case errors.Is(err, store.ErrNotFound):
		return h.msgs.T("error.not_found")
	case errors.Is(err, store.ErrDuplicateKey):
		return h.msgs.T("error.duplicate_key")
	case errors.Is(err, store.ErrInvalidKey):
		return h.msgs.T("error.invalid_key", vars{"Max": store.MaxKeyLength})
	case errors.Is(err, errNotOwner):
		return h.msgs.T("error.not_owner")
	default:
		return h.msgs.T("error.internal")
	}
}

func generationDetail(err error) string {
	var gerr *generator.GenerationError
	if errors.As(err, &gerr) {
		return gerr.Detail
	}
	return ""
}

// snippet shortens quoted input for a reply
func snippet(s string) string {
	return stringx.Truncate(s, 17, "…")
}
