package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteDownloadFile drops a file into dir with the given age, creating dir if
// needed. Returns the full path.
func WriteDownloadFile(t testing.TB, dir, name string, age time.Duration) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if age > 0 {
		stamp := time.Now().Add(-age)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	return path
}
