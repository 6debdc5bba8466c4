package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildVersionString(t *testing.T) {
	SetBuildInfo("v1.2.3", "abc123", "2026-02-16T12:00:00Z")
	got := BuildVersionString()
	want := "v1.2.3 (abc123) 2026-02-16T12:00:00Z"
	if got != want {
		t.Fatalf("BuildVersionString() = %q, want %q", got, want)
	}
}

func TestVersionCommand(t *testing.T) {
	SetBuildInfo("v9.9.9", "abc", "2026-02-17T00:00:00Z")
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "qrkit v9.9.9 (abc) 2026-02-17T00:00:00Z") {
		t.Fatalf("unexpected version output: %q", got)
	}
}
