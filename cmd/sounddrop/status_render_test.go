package main

import (
	"strings"
	"testing"

	"sounddrop/internal/api"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Running", statusOK, "pid 42", false)
	if !strings.Contains(line, "Running:") || !strings.Contains(line, "[OK] pid 42") {
		t.Errorf("unexpected line: %q", line)
	}
	if strings.Contains(line, ansiGreen) {
		t.Error("plain rendering must not contain ANSI codes")
	}

	colored := renderStatusLine("Running", statusOK, "pid 42", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Errorf("expected colored line, got %q", colored)
	}
}

func TestRenderDaemonStatus(t *testing.T) {
	status := &api.DaemonStatus{
		Running:       true,
		PID:           42,
		Bind:          "0.0.0.0:8000",
		DownloadDir:   "/app/downloads",
		HistoryDBPath: "/data/history.db",
		FreeDiskBytes: 10 * 1024 * 1024 * 1024,
		History:       api.HistoryHealth{Total: 3, Completed: 2, Failed: 1},
		Dependencies: []api.DependencyStatus{
			{Name: "yt-dlp", Command: "/usr/bin/yt-dlp", Available: true},
			{Name: "FFmpeg", Detail: `binary "ffmpeg" not found`},
		},
		MissingDeps: []string{"FFmpeg"},
	}

	output := strings.Join(renderDaemonStatus(status, false), "\n")
	for _, want := range []string{
		"== Daemon ==",
		"[OK] pid 42",
		"0.0.0.0:8000",
		"== Downloads ==",
		"== Dependencies ==",
		"yt-dlp",
		"FFmpeg",
		"[ERROR]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("status output missing %q:\n%s", want, output)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected truncate: %q", got)
	}
	if got := truncate("a very long title indeed", 10); got != "a very ..." {
		t.Errorf("unexpected truncate: %q", got)
	}
}
