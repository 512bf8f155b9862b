package testsupport

import (
	"testing"

	"sounddrop/internal/config"
	"sounddrop/internal/store"
)

// MustOpenStore opens a history store for tests and closes it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
