// ABOUTME: Repeatable -m flag for add where each occurrence starts a new entry.
// ABOUTME: Words following a -m value up to the next -m belong to that entry.
package main

import (
	"strings"

	"github.com/spf13/pflag"
)

// messageFlag records each -m value together with how many positional words
// the flag set had collected when it was parsed.
type messageFlag struct {
	flags  *pflag.FlagSet
	groups []messageGroup
}

type messageGroup struct {
	text string
	at   int
}

func newMessageFlag(flags *pflag.FlagSet) *messageFlag {
	return &messageFlag{flags: flags}
}

func (m *messageFlag) String() string {
	return "[" + strings.Join(m.GetSlice(), ",") + "]"
}

func (m *messageFlag) Set(v string) error {
	m.groups = append(m.groups, messageGroup{text: v, at: len(m.flags.Args())})
	return nil
}

func (m *messageFlag) Type() string {
	return "text"
}

func (m *messageFlag) Append(v string) error {
	return m.Set(v)
}

func (m *messageFlag) Replace(vals []string) error {
	m.groups = nil
	for _, v := range vals {
		m.groups = append(m.groups, messageGroup{text: v})
	}
	return nil
}

func (m *messageFlag) GetSlice() []string {
	out := make([]string, 0, len(m.groups))
	for _, g := range m.groups {
		out = append(out, g.text)
	}
	return out
}

// Messages splits the positional args into entries: words before the first -m
// form one entry, and each -m value is joined with the words after it.
// Blank entries are dropped.
func (m *messageFlag) Messages(args []string) []string {
	var out []string
	add := func(words []string) {
		text := strings.TrimSpace(strings.Join(words, " "))
		if text != "" {
			out = append(out, text)
		}
	}

	lead := len(args)
	if len(m.groups) > 0 {
		lead = min(m.groups[0].at, len(args))
	}
	add(args[:lead])

	for i, g := range m.groups {
		start := min(max(g.at, lead), len(args))
		end := len(args)
		if i+1 < len(m.groups) {
			end = min(max(m.groups[i+1].at, start), len(args))
		}
		add(append([]string{g.text}, args[start:end]...))
	}
	return out
}
