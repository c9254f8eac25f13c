package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/murmurhouse/murmur/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS archives (
	id            TEXT PRIMARY KEY,
	room_id       TEXT NOT NULL,
	archived_at   TEXT NOT NULL,
	message_count INTEGER NOT NULL,
	total_tokens  INTEGER NOT NULL,
	summary       TEXT NOT NULL,
	payload       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archives_room ON archives(room_id, archived_at);
`

// SQLiteStore is the local durable archive store. It holds full archive
// content and serves as the fallback when the vector index is unavailable.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the archive database at dbPath and applies
// the schema. Pass ":memory:" for tests.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Persist(ctx context.Context, a domain.Archive) error {
	payload, err := json.Marshal(a.Messages)
	if err != nil {
		return fmt.Errorf("encode archive payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO archives (id, room_id, archived_at, message_count, total_tokens, summary, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, string(a.ID), string(a.RoomID), a.ArchivedAt.UTC().Format(time.RFC3339Nano),
		a.TotalMessages, a.TotalTokens, a.Summary, string(payload))
	if err != nil {
		return fmt.Errorf("persist archive %s: %w", a.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, roomID domain.RoomID, limit int) ([]domain.Archive, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, archived_at, message_count, total_tokens, summary, payload
		FROM archives WHERE room_id = ?
		ORDER BY archived_at DESC LIMIT ?
	`, string(roomID), limit)
	if err != nil {
		return nil, fmt.Errorf("list archives for %s: %w", roomID, err)
	}
	defer rows.Close()

	var out []domain.Archive
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Search is a plain substring match over summaries and message payloads.
// Hits carry no similarity score.
func (s *SQLiteStore) Search(ctx context.Context, roomID domain.RoomID, query string, limit int) ([]SearchHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, archived_at, message_count, total_tokens, summary, payload
		FROM archives
		WHERE room_id = ? AND (summary LIKE ? OR payload LIKE ?)
		ORDER BY archived_at DESC LIMIT ?
	`, string(roomID), "%"+query+"%", "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search archives for %s: %w", roomID, err)
	}
	defer rows.Close()

	var out []SearchHit
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, SearchHit{Meta: a.Meta()})
	}
	return out, rows.Err()
}

func scanArchive(rows *sql.Rows) (domain.Archive, error) {
	var (
		a          domain.Archive
		id, room   string
		archivedAt string
		payload    string
	)
	if err := rows.Scan(&id, &room, &archivedAt, &a.TotalMessages, &a.TotalTokens, &a.Summary, &payload); err != nil {
		return domain.Archive{}, fmt.Errorf("scan archive row: %w", err)
	}
	a.ID = domain.ArchiveID(id)
	a.RoomID = domain.RoomID(room)
	at, err := time.Parse(time.RFC3339Nano, archivedAt)
	if err != nil {
		return domain.Archive{}, fmt.Errorf("parse archived_at: %w", err)
	}
	a.ArchivedAt = at
	if err := json.Unmarshal([]byte(payload), &a.Messages); err != nil {
		return domain.Archive{}, fmt.Errorf("decode archive payload: %w", err)
	}
	return a, nil
}
