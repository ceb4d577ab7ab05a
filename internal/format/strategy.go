package format

import (
	"fmt"
	"strings"
)

// Strategy turns one message's text into blocks. Implementations never mix
// their rules with another strategy's within a single block sequence.
type Strategy interface {
	Name() string
	Format(text string) []Block
}

// Message kinds and roles as they are stored by the session store.
const (
	roleAssistant    = "assistant"
	kindSearchStatus = "search-status"
	kindSources      = "sources"
	fenceDelimiter   = "```"
)

var strategies = map[string]Strategy{
	Rich{}.Name():   Rich{},
	Fenced{}.Name(): Fenced{},
	Plain{}.Name():  Plain{},
}

// ByName looks up a strategy. "auto" and "" are not strategies; see
// Resolve.
func ByName(name string) (Strategy, error) {
	s, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown render strategy: %q", name)
	}
	return s, nil
}

// ForMessage picks the strategy for a stored message.
func ForMessage(role, kind, content string) Strategy {
	switch kind {
	case kindSearchStatus, kindSources:
		return Plain{}
	}
	if strings.Contains(content, fenceDelimiter) {
		return Fenced{}
	}
	if role == roleAssistant {
		return Rich{}
	}
	return Fenced{}
}

// Resolve returns the named strategy. "" and "auto" pick the strategy
// ForMessage would use for assistant text.
func Resolve(name, content string) (Strategy, error) {
	if n := strings.ToLower(strings.TrimSpace(name)); n == "" || n == "auto" {
		return ForMessage(roleAssistant, "", content), nil
	}
	return ByName(name)
}

// Format renders assistant text with the rich strategy.
func Format(text string) []Block {
	return Rich{}.Format(text)
}
