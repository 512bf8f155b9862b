package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DownloadRequest is the body accepted by POST /download.
type DownloadRequest struct {
	URL string `json:"url"`
}

// DownloadResponse reports a completed download and where to fetch the file.
// The key names are the wire contract existing frontends bind to.
type DownloadResponse struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	Title        string `json:"title"`
	SafeFilename string `json:"safe_filename"`
	DownloadURL  string `json:"download_url"`
	FileSize     int64  `json:"file_size,omitempty"`
}

// HistoryItem describes a download record in a transport-friendly format.
type HistoryItem struct {
	ID           int64  `json:"id"`
	Token        string `json:"token"`
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	Filename     string `json:"filename,omitempty"`
	FileSize     int64  `json:"fileSize,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// HistoryResponse wraps a collection of history items.
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// CleanupResponse reports the result of a purge request.
type CleanupResponse struct {
	FilesRemoved int    `json:"filesRemoved"`
	Message      string `json:"message"`
}

// HistoryHealth aggregates record counts by lifecycle state.
type HistoryHealth struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Downloading int `json:"downloading"`
	Completed   int `json:"completed"`
	Fetched     int `json:"fetched"`
	Expired     int `json:"expired"`
	Failed      int `json:"failed"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running        bool               `json:"running"`
	PID            int                `json:"pid"`
	Bind           string             `json:"bind"`
	DownloadDir    string             `json:"downloadDir"`
	HistoryDBPath  string             `json:"historyDbPath"`
	LockFilePath   string             `json:"lockFilePath"`
	FreeDiskBytes  uint64             `json:"freeDiskBytes"`
	History        HistoryHealth      `json:"history"`
	Dependencies   []DependencyStatus `json:"dependencies"`
	MissingDeps    []string           `json:"missingDeps,omitempty"`
	StartedAt      string             `json:"startedAt,omitempty"`
	UptimeSeconds  int64              `json:"uptimeSeconds,omitempty"`
}

// HealthResponse is the minimal liveness payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ErrorResponse is the uniform error body returned by the server.
type ErrorResponse struct {
	Error string `json:"error"`
}
