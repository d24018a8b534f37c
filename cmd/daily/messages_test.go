// ABOUTME: Tests for grouping add's -m values with the words that follow them.
// ABOUTME: Parses a bare pflag set so grouping is checked without the command tree.
package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMessages(t *testing.T, args ...string) []string {
	t.Helper()
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	m := newMessageFlag(fs)
	fs.VarP(m, "message", "m", "")
	fs.String("tag", "", "")
	require.NoError(t, fs.Parse(args))
	return m.Messages(fs.Args())
}

func TestMessageGroups(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"single word flags", []string{"-m", "one", "-m", "two"}, []string{"one", "two"}},
		{"words follow their flag", []string{"-m", "fixed", "the", "bug", "-m", "wrote", "docs"}, []string{"fixed the bug", "wrote docs"}},
		{"leading words first", []string{"standup", "-m", "later"}, []string{"standup", "later"}},
		{"positional only", []string{"fixed", "the", "build"}, []string{"fixed the build"}},
		{"other flags between words", []string{"-m", "deploy", "--tag", "ops", "api"}, []string{"deploy api"}},
		{"equals form", []string{"-m=quoted text", "tail"}, []string{"quoted text tail"}},
		{"blank dropped", []string{"-m", " ", "-m", "kept"}, []string{"kept"}},
		{"nothing", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMessages(t, tt.args...))
		})
	}
}

func TestMessageFlagReplace(t *testing.T) {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	m := newMessageFlag(fs)
	fs.VarP(m, "message", "m", "")
	require.NoError(t, fs.Parse([]string{"-m", "a", "-m", "b"}))
	assert.Equal(t, []string{"a", "b"}, m.GetSlice())

	require.NoError(t, m.Replace(nil))
	assert.Empty(t, m.GetSlice())
	assert.Equal(t, "[]", m.String())
}
