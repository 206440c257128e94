package travelblog

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrDraftNotFound is returned when a draft ID has no row, typically after
// the draft was already deleted by a successful publish.
var ErrDraftNotFound = errors.New("draft not found")

// DraftRecord is one autosaved editor session. Payload is the draft's post
// snapshot serialized as JSON; PostID is the backend post being edited,
// empty for a brand-new post.
type DraftRecord struct {
	ID        string
	PostID    string
	Title     string
	Payload   string
	UpdatedAt time.Time
}

// DraftStore wraps a SQLite database holding in-progress admin drafts.
// Published content never lives here; the backend owns it.
type DraftStore struct {
	db *sql.DB
}

// NewDraftStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewDraftStore(path string) (*DraftStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &DraftStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

func (s *DraftStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS drafts (
    id TEXT PRIMARY KEY,
    post_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    payload TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// NewDraftID returns a fresh draft identifier.
func NewDraftID() string {
	return uuid.NewString()
}

// SaveDraft upserts a draft record, stamping UpdatedAt. Repeated autosaves
// for the same ID overwrite the previous snapshot.
func (s *DraftStore) SaveDraft(rec DraftRecord) error {
	if rec.ID == "" {
		return errors.New("draft id required")
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO drafts (id, post_id, title, payload, updated_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.PostID, rec.Title, rec.Payload, now.Format(time.RFC3339))
	return err
}

// GetDraft returns a single draft by ID.
func (s *DraftStore) GetDraft(id string) (DraftRecord, error) {
	var rec DraftRecord
	var updatedAt string
	err := s.db.QueryRow(`SELECT id, post_id, title, payload, updated_at FROM drafts WHERE id = ?`, id).
		Scan(&rec.ID, &rec.PostID, &rec.Title, &rec.Payload, &updatedAt)
	if err == sql.ErrNoRows {
		return DraftRecord{}, ErrDraftNotFound
	}
	if err != nil {
		return DraftRecord{}, err
	}
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

// GetDraftByPostID returns the autosave for a backend post, if one exists.
// Opening the editor for a post resumes from here instead of the backend copy.
func (s *DraftStore) GetDraftByPostID(postID string) (DraftRecord, error) {
	if postID == "" {
		return DraftRecord{}, ErrDraftNotFound
	}
	var rec DraftRecord
	var updatedAt string
	err := s.db.QueryRow(`SELECT id, post_id, title, payload, updated_at FROM drafts WHERE post_id = ? ORDER BY updated_at DESC LIMIT 1`, postID).
		Scan(&rec.ID, &rec.PostID, &rec.Title, &rec.Payload, &updatedAt)
	if err == sql.ErrNoRows {
		return DraftRecord{}, ErrDraftNotFound
	}
	if err != nil {
		return DraftRecord{}, err
	}
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

// ListDrafts returns all drafts ordered by most recently updated.
func (s *DraftStore) ListDrafts() ([]DraftRecord, error) {
	rows, err := s.db.Query(`SELECT id, post_id, title, payload, updated_at FROM drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []DraftRecord
	for rows.Next() {
		var rec DraftRecord
		var updatedAt string
		if err := rows.Scan(&rec.ID, &rec.PostID, &rec.Title, &rec.Payload, &updatedAt); err != nil {
			return nil, err
		}
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		drafts = append(drafts, rec)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes a draft by ID. Deleting a missing draft is not an
// error; the publish flow calls this unconditionally.
func (s *DraftStore) DeleteDraft(id string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	return err
}
