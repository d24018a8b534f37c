// ABOUTME: Tests for result rendering.
// ABOUTME: Checks item bullets and the blank line separating warnings from items.
package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/2389-research/daily/internal/models"
)

func TestRenderResultItemsOnly(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, &models.Result{Items: []string{"a", "b"}})
	if buf.String() != "- a\n- b\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderResultWithWarnings(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, &models.Result{
		Items:    []string{"a"},
		Warnings: []string{"first", "second"},
	})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 4 lines plus trailing newline, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Errorf("expected warnings first, got %q", buf.String())
	}
	if lines[2] != "" || lines[3] != "- a" {
		t.Errorf("expected blank line then items, got %q", buf.String())
	}
}

func TestRenderResultNil(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	renderError(&buf, errors.New("Invalid date 2024-13-01, not a calendar date"))
	if !strings.Contains(buf.String(), "Invalid date 2024-13-01") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
