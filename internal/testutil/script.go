package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteScript writes an executable /bin/sh script with the given body to a
// fresh temp directory and returns its absolute path.
func WriteScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "child.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	return path
}
