package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"sounddrop/internal/config"
)

// Store manages download history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the history database.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// New inserts a pending download record for the given URL and token.
func (s *Store) New(ctx context.Context, token, url string) (*Record, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("token is required")
	}
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("url is required")
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO downloads (token, url, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		token,
		url,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert download: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a download record by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM downloads WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get download: %w", err)
	}
	return record, nil
}

// GetByToken fetches a download record by its token.
func (s *Store) GetByToken(ctx context.Context, token string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM downloads WHERE token = ?`, token)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get download by token: %w", err)
	}
	return record, nil
}

// Update persists changes to an existing download record.
func (s *Store) Update(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads
         SET url = ?, title = ?, safe_filename = ?, file_path = ?, file_size = ?,
             status = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		record.URL,
		nullableString(record.Title),
		nullableString(record.SafeFilename),
		nullableString(record.FilePath),
		record.FileSize,
		record.Status,
		nullableString(record.ErrorMessage),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update download: %w", err)
	}
	return nil
}

// List returns records filtered by status set (or all records when no status
// is provided), newest first, capped at limit when limit > 0.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM downloads`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// MarkFetched transitions a record to fetched once its file has been served
// and removed from disk.
func (s *Store) MarkFetched(ctx context.Context, token string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads SET status = ?, updated_at = ? WHERE token = ? AND status = ?`,
		StatusFetched,
		now,
		token,
		StatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("mark fetched: %w", err)
	}
	return nil
}

// ExpireOlderThan marks completed records created before the cutoff as
// expired, mirroring the janitor removing their files from disk.
func (s *Store) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads SET status = ?, updated_at = ?
         WHERE status = ? AND created_at < ?`,
		StatusExpired,
		now,
		StatusCompleted,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("expire old downloads: %w", err)
	}
	return res.RowsAffected()
}

// ExpireActive marks every completed record expired. Used by the purge-all
// cleanup endpoint.
func (s *Store) ExpireActive(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads SET status = ?, updated_at = ? WHERE status = ?`,
		StatusExpired,
		now,
		StatusCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("expire active downloads: %w", err)
	}
	return res.RowsAffected()
}

// ResetStuck fails records left in pending or downloading state by a previous
// process that died mid-download.
func (s *Store) ResetStuck(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads
         SET status = ?, error_message = 'Interrupted by daemon restart', updated_at = ?
         WHERE status IN (?, ?)`,
		StatusFailed,
		now,
		StatusPending,
		StatusDownloading,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck downloads: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of records grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM downloads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("download stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates record state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusDownloading:
			health.Downloading += count
		case StatusCompleted:
			health.Completed += count
		case StatusFetched:
			health.Fetched += count
		case StatusExpired:
			health.Expired += count
		case StatusFailed:
			health.Failed += count
		}
	}
	return health, nil
}

// Ping verifies the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("history database connection unavailable")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// Remove deletes a record by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM downloads WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete download: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all records from the history.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM downloads`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

const recordColumns = "id, token, url, title, safe_filename, file_path, file_size, status, error_message, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id           int64
		token        string
		url          string
		title        sql.NullString
		safeFilename sql.NullString
		filePath     sql.NullString
		fileSize     sql.NullInt64
		statusStr    string
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&token,
		&url,
		&title,
		&safeFilename,
		&filePath,
		&fileSize,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:           id,
		Token:        token,
		URL:          url,
		Title:        title.String,
		SafeFilename: safeFilename.String,
		FilePath:     filePath.String,
		FileSize:     fileSize.Int64,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
