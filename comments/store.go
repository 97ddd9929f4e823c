package comments

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding comments and commenter profiles.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// Pragmas go in the DSN so every pooled connection gets them. WAL lets the
	// page renderer read while a comment is being written; writers wait on the
	// busy timeout instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    post TEXT NOT NULL,
    author_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post);
`)
	return err
}

// Create validates n against the storage bound and inserts it. The id and
// creation time are assigned here.
func (s *Store) Create(ctx context.Context, n NewComment) (Comment, error) {
	if err := ValidateNew(n); err != nil {
		return Comment{}, err
	}
	c := Comment{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(n.Content),
		Post:      n.Post,
		AuthorID:  n.UserID,
		Author:    User{ID: n.UserID},
		CreatedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, content, post, author_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Content, c.Post, c.AuthorID, c.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// ListByPost returns the comments of post in insertion order, each with its
// author's profile when one is known.
func (s *Store) ListByPost(ctx context.Context, post string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.id, c.content, c.post, c.author_id, c.created_at, COALESCE(u.name, ''), COALESCE(u.image, '')
FROM comments c LEFT JOIN users u ON u.id = c.author_id
WHERE c.post = ?
ORDER BY c.rowid`, post)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		var created string
		if err := rows.Scan(&c.ID, &c.Content, &c.Post, &c.AuthorID, &created, &c.Author.Name, &c.Author.Image); err != nil {
			return nil, err
		}
		c.Author.ID = c.AuthorID
		c.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("comment %s: parse created_at: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveUser upserts a commenter profile.
func (s *Store) SaveUser(ctx context.Context, u User) error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("save user: empty id")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (id, name, image) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, image = excluded.image`,
		u.ID, u.Name, u.Image)
	return err
}
