package cli

import (
	"strings"
	"testing"
)

func TestRegistryList(t *testing.T) {
	dir := t.TempDir()

	listed := mustRunJSON(t, "--dir", dir, "registry", "list")
	defs, ok := listed["data"].([]any)
	if !ok || len(defs) != 5 {
		t.Fatalf("registry list = %#v, want 5 builtin definitions", listed["data"])
	}

	tools := mustRunJSON(t, "--dir", dir, "registry", "list", "--category", "tools")
	defs, _ = tools["data"].([]any)
	if len(defs) != 2 {
		t.Fatalf("tools category = %#v, want 2 definitions", tools["data"])
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "registry", "list", "--category", "games"}); err == nil {
		t.Fatalf("invalid category accepted")
	}
}

func TestRegistryShow(t *testing.T) {
	dir := t.TempDir()

	shown := mustRunJSON(t, "--dir", dir, "registry", "show", "status-widget", "--json")
	def := dataMap(t, shown)
	if def["id"] != "status-widget" || def["defaultSize"] != "small" {
		t.Fatalf("registry show = %#v", def)
	}

	// Human-readable form renders the markdown description.
	stdout, _, err := runCLI(t, []string{"--dir", dir, "registry", "show", "status-widget"})
	if err != nil {
		t.Fatalf("registry show: %v", err)
	}
	if !strings.Contains(string(stdout), "status indicator") {
		t.Fatalf("rendered description missing:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "registry", "show", "nope"}); err == nil {
		t.Fatalf("show of unknown definition succeeded")
	}
}

func TestBoardShowRendersActiveLayout(t *testing.T) {
	dir := t.TempDir()

	// No layout yet: a friendly hint, not an error.
	stdout, _, err := runCLI(t, []string{"--dir", dir, "board", "show"})
	if err != nil {
		t.Fatalf("board show on empty store: %v", err)
	}
	if !strings.Contains(string(stdout), "No active layout") {
		t.Fatalf("empty-store output = %q", stdout)
	}

	mustRunJSON(t, "--dir", dir, "widgets", "add", "status-widget", "--title", "API health")
	stdout, _, err = runCLI(t, []string{"--dir", dir, "board", "show"})
	if err != nil {
		t.Fatalf("board show: %v", err)
	}
	out := string(stdout)
	if !strings.Contains(out, "Default Layout") {
		t.Fatalf("board header missing layout name:\n%s", out)
	}
	if !strings.Contains(out, "API health") {
		t.Fatalf("board missing widget title:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "board", "show", "--layout", "lay-missing"}); err == nil {
		t.Fatalf("board show of unknown layout succeeded")
	}
}
