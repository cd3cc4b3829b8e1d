package ident

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileProviderReadsProfile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "identity.json")
	data := `{"uid":"u1","email":"u1@example.org","displayName":"User One","photoURL":"https://example.org/u1.png"}`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := NewFileProvider(p).Current()
	if got.UID != "u1" || got.Email != "u1@example.org" || got.DisplayName != "User One" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestFileProviderMissingFileFallsBackToDemo(t *testing.T) {
	got := NewFileProvider(filepath.Join(t.TempDir(), "nope.json")).Current()
	if got != Demo() {
		t.Fatalf("want demo identity, got %+v", got)
	}
}

func TestFileProviderCorruptFileFallsBackToDemo(t *testing.T) {
	p := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(p, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := NewFileProvider(p).Current(); got != Demo() {
		t.Fatalf("want demo identity, got %+v", got)
	}
}

func TestFileProviderEmptyUIDFallsBackToDemo(t *testing.T) {
	p := filepath.Join(t.TempDir(), "identity.json")
	if err := os.WriteFile(p, []byte(`{"email":"x@y.z"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := NewFileProvider(p).Current(); got != Demo() {
		t.Fatalf("want demo identity, got %+v", got)
	}
}

func TestStaticFallsBackToDemo(t *testing.T) {
	if got := (Static{}).Current(); got != Demo() {
		t.Fatalf("want demo identity, got %+v", got)
	}
	fixed := Profile{UID: "u2", Email: "u2@example.org", DisplayName: "User Two"}
	if got := (Static{Profile: fixed}).Current(); got != fixed {
		t.Fatalf("want fixed profile, got %+v", got)
	}
}
