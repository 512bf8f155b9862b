package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sounddrop/internal/api"
	"sounddrop/internal/downloader"
	"sounddrop/internal/logging"
	"sounddrop/internal/store"
)

const defaultHistoryLimit = 50

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "sounddrop audio downloader",
		"status":  "running",
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	// Aged files are swept before the new download lands so the directory
	// never accumulates between janitor ticks.
	if s.cleaner != nil {
		if _, err := s.cleaner.PruneOlderThan(r.Context()); err != nil {
			s.logger.Warn("pre-download prune failed", logging.Error(err))
		}
	}

	record, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		// Engine failures are the caller's problem (bad or unavailable
		// source); only a vanished output file is a server-side fault.
		if errors.Is(err, downloader.ErrUnsupportedURL) || errors.Is(err, downloader.ErrDownloadFailed) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	served := filepath.Base(record.FilePath)
	s.writeJSON(w, http.StatusOK, api.DownloadResponse{
		Success:      true,
		Token:        record.Token,
		Title:        record.Title,
		SafeFilename: record.SafeFilename,
		DownloadURL: fmt.Sprintf("/file/%s?download_name=%s",
			url.PathEscape(served), url.QueryEscape(record.SafeFilename)),
		FileSize: record.FileSize,
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/file/")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		s.writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	path := filepath.Join(s.cfg.Paths.DownloadDir, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.writeError(w, http.StatusNotFound, "file not found or already fetched")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "open file failed")
		return
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		_ = file.Close()
		s.writeError(w, http.StatusNotFound, "file not found or already fetched")
		return
	}

	downloadName := strings.TrimSpace(r.URL.Query().Get("download_name"))
	if downloadName == "" {
		downloadName = name
	}
	w.Header().Set("Content-Disposition", contentDisposition(downloadName))
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeContent(w, r, "", info.ModTime(), file)
	_ = file.Close()

	// One-shot delivery: the file is gone once a client has pulled it.
	if err := os.Remove(path); err != nil {
		s.logger.Warn("remove served file", logging.String("file", path), logging.Error(err))
	}
	token := strings.TrimSuffix(name, filepath.Ext(name))
	if err := s.store.MarkFetched(r.Context(), token); err != nil {
		s.logger.Warn("mark fetched", logging.String(logging.FieldToken, token), logging.Error(err))
	}
}

// contentDisposition renders an attachment header carrying both the plain
// ASCII fallback and the RFC 5987 encoded form for non-ASCII names.
func contentDisposition(name string) string {
	fallback := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			fallback = append(fallback, '_')
			continue
		}
		fallback = append(fallback, r)
	}
	encoded := url.PathEscape(name)
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", string(fallback), encoded)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.cleaner == nil {
		s.writeError(w, http.StatusServiceUnavailable, "cleanup unavailable")
		return
	}
	removed, err := s.cleaner.PurgeAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.CleanupResponse{
		FilesRemoved: removed,
		Message:      fmt.Sprintf("removed %d file(s)", removed),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.status == nil {
		s.writeJSON(w, http.StatusOK, api.DaemonStatus{
			Running: true,
			PID:     os.Getpid(),
			Bind:    s.cfg.Paths.Bind,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, s.status.Status(r.Context()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	limit := defaultHistoryLimit
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	var statuses []store.Status
	for _, value := range query["status"] {
		status, ok := store.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", value))
			return
		}
		statuses = append(statuses, status)
	}

	records, err := s.store.List(r.Context(), limit, statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{Items: api.HistoryItemsFromRecords(records)})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, api.HealthResponse{Status: "degraded", Detail: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
