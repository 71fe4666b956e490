// Package testkit holds the small assertions and seams shared by package tests
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var serialMu sync.Mutex

// MustPanic fails t unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustContain fails t unless out contains want
// long outputs such as captured logs are saved under t.TempDir for inspection
func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if strings.Contains(out, want) {
		return
	}
	dump := filepath.Join(t.TempDir(), "captured.txt")
	_ = os.WriteFile(dump, []byte(out), 0o600)
	t.Fatalf("expected output to contain %q\n\nfull output written to %s", want, dump)
}

// Swap replaces a package level seam for the rest of the test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process wide lock until the test ends
// tests that Swap shared seams call it first
func Serial(t *testing.T) {
	t.Helper()
	serialMu.Lock()
	t.Cleanup(serialMu.Unlock)
}
