package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sounddrop/internal/api"
)

func TestStatusCommandAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(api.DaemonStatus{
			Running: true,
			PID:     99,
			Bind:    "127.0.0.1:8000",
		})
	}))
	defer server.Close()

	output, err := executeCommand(t, "--server", server.URL, "status")
	if err != nil {
		t.Fatalf("status command: %v", err)
	}
	if !strings.Contains(output, "pid 99") {
		t.Errorf("expected pid in output, got:\n%s", output)
	}
}

func TestHistoryCommandRendersTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.HistoryResponse{
			Items: []api.HistoryItem{
				{ID: 1, Status: "completed", Title: "First Track", FileSize: 2048},
				{ID: 2, Status: "failed", ErrorMessage: "yt-dlp: exit status 1"},
			},
		})
	}))
	defer server.Close()

	output, err := executeCommand(t, "--server", server.URL, "history")
	if err != nil {
		t.Fatalf("history command: %v", err)
	}
	for _, want := range []string{"First Track", "completed", "failed", "2.0 KiB"} {
		if !strings.Contains(output, want) {
			t.Errorf("history output missing %q:\n%s", want, output)
		}
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.HistoryResponse{})
	}))
	defer server.Close()

	output, err := executeCommand(t, "--server", server.URL, "history")
	if err != nil {
		t.Fatalf("history command: %v", err)
	}
	if !strings.Contains(output, "No downloads recorded.") {
		t.Errorf("expected empty message, got:\n%s", output)
	}
}

func TestCleanupCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(api.CleanupResponse{FilesRemoved: 4, Message: "removed 4 file(s)"})
	}))
	defer server.Close()

	output, err := executeCommand(t, "--server", server.URL, "cleanup")
	if err != nil {
		t.Fatalf("cleanup command: %v", err)
	}
	if !strings.Contains(output, "removed 4 file(s)") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestCommandSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "history database unavailable"})
	}))
	defer server.Close()

	_, err := executeCommand(t, "--server", server.URL, "history")
	if err == nil {
		t.Fatal("expected error from failing server")
	}
	if !strings.Contains(err.Error(), "history database unavailable") {
		t.Errorf("unexpected error: %v", err)
	}
}
