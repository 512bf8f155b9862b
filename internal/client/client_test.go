package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sounddrop/internal/api"
)

func TestNewForBind(t *testing.T) {
	cases := []struct {
		bind string
		want string
	}{
		{"0.0.0.0:8000", "http://127.0.0.1:8000"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
		{"[::]:8000", "http://127.0.0.1:8000"},
		{"example.com:8000", "http://example.com:8000"},
	}
	for _, tc := range cases {
		if got := NewForBind(tc.bind).BaseURL(); got != tc.want {
			t.Errorf("NewForBind(%q) = %q, want %q", tc.bind, got, tc.want)
		}
	}
}

func TestStatusRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(api.DaemonStatus{Running: true, PID: 42})
	}))
	defer server.Close()

	status, err := New(server.URL).Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Running || status.PID != 42 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestHistoryQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("limit") != "5" {
			t.Errorf("expected limit=5, got %q", query.Get("limit"))
		}
		if got := query["status"]; len(got) != 2 {
			t.Errorf("expected two status filters, got %v", got)
		}
		_ = json.NewEncoder(w).Encode(api.HistoryResponse{
			Items: []api.HistoryItem{{Token: "tok-1", Status: "completed"}},
		})
	}))
	defer server.Close()

	items, err := New(server.URL).History(context.Background(), 5, "completed", "failed")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 1 || items[0].Token != "tok-1" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestDownloadPostsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req api.DownloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.URL != "https://soundcloud.com/a/t" {
			t.Errorf("unexpected url %q", req.URL)
		}
		_ = json.NewEncoder(w).Encode(api.DownloadResponse{Success: true, Token: "tok-1", SafeFilename: "Track.mp3"})
	}))
	defer server.Close()

	resp, err := New(server.URL).Download(context.Background(), "https://soundcloud.com/a/t")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !resp.Success || resp.Token != "tok-1" || resp.SafeFilename != "Track.mp3" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestErrorResponseSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "url is required"})
	}))
	defer server.Close()

	_, err := New(server.URL).Download(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "url is required (HTTP 400)" {
		t.Errorf("unexpected error: %q", got)
	}
}

func TestFetchFileStreams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	n, err := New(server.URL).FetchFile(context.Background(), "/file/tok-1.mp3", &buf)
	if err != nil {
		t.Fatalf("fetch file: %v", err)
	}
	if n != int64(len("audio-bytes")) || buf.String() != "audio-bytes" {
		t.Errorf("unexpected stream: n=%d body=%q", n, buf.String())
	}
}
