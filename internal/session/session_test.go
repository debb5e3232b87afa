package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoad_MissingFileMeansLoggedOut(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "token"))
	if err := s.Load(); err != nil {
		t.Fatalf("load with no file: %v", err)
	}
	if tok, ok := s.Token(); ok || tok != "" {
		t.Fatalf("expected no token, got %q (ok=%v)", tok, ok)
	}
}

func TestSetLoadClear_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "askbob", "token")
	s := NewStore(path)
	if err := s.Set("T"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh store sees the persisted token.
	s2 := NewStore(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok, ok := s2.Token(); !ok || tok != "T" {
		t.Fatalf("expected token T, got %q (ok=%v)", tok, ok)
	}

	if err := s2.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s2.Token(); ok {
		t.Fatalf("expected cleared token")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected token file removed, stat err=%v", err)
	}

	// Clearing again is fine.
	if err := s2.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestSet_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)
	if err := s.Set("secret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}
}
