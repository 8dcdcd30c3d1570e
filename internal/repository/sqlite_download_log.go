package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iconidentify/vidgrab/internal/domain"
)

// SQLiteDownloadLog implements DownloadLogRepository on a local SQLite
// database. One connection pool is shared by all requests.
type SQLiteDownloadLog struct {
	db *sql.DB
}

// NewSQLiteDownloadLog opens (creating if needed) the database at path
// and ensures the schema exists.
func NewSQLiteDownloadLog(path string) (*SQLiteDownloadLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteDownloadLog{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	title TEXT NOT NULL,
	platform TEXT NOT NULL,
	thumbnail TEXT,
	duration INTEGER NOT NULL DEFAULT 0,
	formats TEXT NOT NULL,
	status TEXT NOT NULL,
	raw_info TEXT,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
`

// Append implements DownloadLogRepository.
func (r *SQLiteDownloadLog) Append(ctx context.Context, entry *domain.DownloadLogEntry) error {
	formats, err := json.Marshal(entry.Formats)
	if err != nil {
		return fmt.Errorf("marshal formats: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO downloads (id, url, title, platform, thumbnail, duration, formats, status, raw_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.URL,
		entry.Title,
		string(entry.Platform),
		entry.Thumbnail,
		entry.Duration,
		string(formats),
		string(entry.Status),
		string(entry.RawInfo),
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

// ListRecent implements DownloadLogRepository.
func (r *SQLiteDownloadLog) ListRecent(ctx context.Context, n int) ([]*domain.DownloadLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, title, platform, thumbnail, duration, formats, status, raw_info, created_at
		FROM downloads
		ORDER BY created_at DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	var entries []*domain.DownloadLogEntry
	for rows.Next() {
		var (
			e        domain.DownloadLogEntry
			platform string
			status   string
			formats  string
			rawInfo  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &platform, &e.Thumbnail, &e.Duration,
			&formats, &status, &rawInfo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		e.Platform = domain.Platform(platform)
		e.Status = domain.VideoStatus(status)
		if rawInfo.Valid {
			e.RawInfo = []byte(rawInfo.String)
		}
		if err := json.Unmarshal([]byte(formats), &e.Formats); err != nil {
			return nil, fmt.Errorf("unmarshal formats: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate downloads: %w", err)
	}
	return entries, nil
}

// Prune implements DownloadLogRepository.
func (r *SQLiteDownloadLog) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM downloads WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune downloads: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Close implements DownloadLogRepository.
func (r *SQLiteDownloadLog) Close() error {
	return r.db.Close()
}
