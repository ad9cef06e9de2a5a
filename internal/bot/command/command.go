// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     command
// Description: Tokenizer for chat commands addressed to the bot
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Kind identifies a bot command
type Kind int

const (
	KindGenerate Kind = iota + 1
	KindSave
	KindCall
	KindRemove
	KindList
	KindJoin
	KindLeave
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindGenerate:
		return "generate"
	case KindSave:
		return "save"
	case KindCall:
		return "call"
	case KindRemove:
		return "remove"
	case KindList:
		return "list"
	case KindJoin:
		return "join"
	case KindLeave:
		return "leave"
	case KindHelp:
		return "help"
	default:
		return "unknown"
	}
}

// aliases maps every accepted command word to its kind
var aliases = map[string]Kind{
	"rand":      KindGenerate,
	"random":    KindGenerate,
	"regex":     KindGenerate,
	"regexp":    KindGenerate,
	"randregex": KindGenerate,
	"save":      KindSave,
	"memory":    KindSave,
	"call":      KindCall,
	"load":      KindCall,
	"remove":    KindRemove,
	"delete":    KindRemove,
	"forget":    KindRemove,
	"list":      KindList,
	"join":      KindJoin,
	"leave":     KindLeave,
	"bye":       KindLeave,
	"help":      KindHelp,
}

// Aliases returns the command words accepted for k, sorted as declared in
// the help text
func Aliases(k Kind) []string {
	var words []string
	for _, w := range helpOrder {
		if aliases[w] == k {
			words = append(words, w)
		}
	}
	return words
}

var helpOrder = []string{
	"rand", "random", "regex", "regexp", "randregex",
	"save", "memory", "call", "load", "remove", "delete", "forget",
	"list", "join", "leave", "bye", "help",
}

// Errors returned by Parse
var (
	ErrNotCommand      = errors.New("message is not a command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// Command is a tokenized chat command
type Command struct {
	Kind Kind
	// Word is the command word as typed, without prefix
	Word    string
	Key     string
	Pattern string
}

// embedRegex matches traQ message embeds such as
// !{"type":"user","raw":"@rexbot","id":"0a0be82e-..."}
var embedRegex = regexp.MustCompile(`!\{"type":"(?:user|channel|group)","raw":"(?:[^\\"]|\\.)+","id":"(?:[^\\"]|\\.)+"\}`)

type embed struct {
	Type string `json:"type"`
	Raw  string `json:"raw"`
	ID   string `json:"id"`
}

// Parser tokenizes messages for one bot
type Parser struct {
	prefix    string
	botUserID string
}

// NewParser returns a parser for commands starting with prefix. Mentions of
// botUserID are removed before tokenizing.
func NewParser(prefix, botUserID string) *Parser {
	if prefix == "" {
		prefix = "/"
	}
	return &Parser{prefix: prefix, botUserID: botUserID}
}

// Prefix returns the command prefix
func (p *Parser) Prefix() string {
	return p.prefix
}

// Mentions reports whether text contains a mention of the bot
func (p *Parser) Mentions(text string) bool {
	for _, m := range embedRegex.FindAllString(text, -1) {
		if e, ok := decodeEmbed(m); ok && e.Type == "user" && e.ID == p.botUserID {
			return true
		}
	}
	return false
}

// StripEmbeds removes mentions of the bot and replaces every other embed by
// its raw text
func (p *Parser) StripEmbeds(text string) string {
	return embedRegex.ReplaceAllStringFunc(text, func(m string) string {
		e, ok := decodeEmbed(m)
		if !ok {
			return m
		}
		if e.Type == "user" && e.ID == p.botUserID {
			return ""
		}
		return e.Raw
	})
}

func decodeEmbed(m string) (embed, bool) {
	var e embed
	if err := json.Unmarshal([]byte(m[1:]), &e); err != nil {
		return embed{}, false
	}
	return e, true
}

// Parse tokenizes a message
func (p *Parser) Parse(text string) (Command, error) {
	content := strings.TrimSpace(p.StripEmbeds(text))
	if !strings.HasPrefix(content, p.prefix) {
		return Command{}, ErrNotCommand
	}
	content = content[len(p.prefix):]
	if content == "" || unicode.IsSpace(rune(content[0])) {
		return Command{}, ErrNotCommand
	}

	word, rest := splitWord(content)

	kind, ok := aliases[strings.ToLower(word)]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s%s", ErrUnknownCommand, p.prefix, word)
	}

	cmd := Command{Kind: kind, Word: word}
	switch kind {
	case KindGenerate:
		if rest == "" {
			return Command{}, fmt.Errorf("%w: pattern", ErrMissingArgument)
		}
		cmd.Pattern = rest
	case KindSave:
		key, pattern := splitWord(rest)
		if key == "" {
			return Command{}, fmt.Errorf("%w: key", ErrMissingArgument)
		}
		if pattern == "" {
			return Command{}, fmt.Errorf("%w: pattern", ErrMissingArgument)
		}
		cmd.Key, cmd.Pattern = key, pattern
	case KindCall, KindRemove:
		key, _ := splitWord(rest)
		if key == "" {
			return Command{}, fmt.Errorf("%w: key", ErrMissingArgument)
		}
		cmd.Key = key
	}
	return cmd, nil
}

// splitWord returns the first whitespace-delimited word of s and the
// trimmed remainder
func splitWord(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
