package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so that created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const postColumns = `id, slug, title, content, content_preview, meta_title, meta_description,
	author, category, label, is_draft, views, created_at, updated_at`

// Store wraps a SQLite database and provides CRUD operations for blog posts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a write; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
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

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err)
	}
	return nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blog_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    content_preview TEXT NOT NULL DEFAULT '',
    meta_title TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    label TEXT NOT NULL DEFAULT '',
    is_draft INTEGER NOT NULL DEFAULT 0,
    views INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_created ON blog_posts (created_at DESC);
`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (BlogPost, error) {
	var p BlogPost
	var draft int
	var created, updated string
	if err := r.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.ContentPreview,
		&p.MetaTitle, &p.MetaDescription, &p.Author, &p.Category, &p.Label,
		&draft, &p.Views, &created, &updated); err != nil {
		return BlogPost{}, err
	}
	p.IsDraft = draft == 1
	var err error
	if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return BlogPost{}, fmt.Errorf("parse created_at of %q: %w", p.Slug, err)
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return BlogPost{}, fmt.Errorf("parse updated_at of %q: %w", p.Slug, err)
	}
	return p, nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err)
	}
	defer rows.Close()

	posts := []BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, storageError(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err)
	}
	return posts, nil
}

// ListPosts returns all published posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]BlogPost, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM blog_posts
		WHERE is_draft = 0 ORDER BY created_at DESC, id DESC`)
}

// ListAllPosts returns posts for the admin, newest first. A nil filter
// value lists drafts and published posts alike.
func (s *Store) ListAllPosts(ctx context.Context, f PostFilter) ([]BlogPost, error) {
	if f.IsDraft == nil {
		return s.queryPosts(ctx, `SELECT `+postColumns+` FROM blog_posts
			ORDER BY created_at DESC, id DESC`)
	}
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM blog_posts
		WHERE is_draft = ? ORDER BY created_at DESC, id DESC`, boolInt(*f.IsDraft))
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(ctx context.Context, slug string) (BlogPost, error) {
	return s.getPost(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = ? AND is_draft = 0`, slug)
}

// GetPostAny returns a post by slug regardless of draft status (for admin).
func (s *Store) GetPostAny(ctx context.Context, slug string) (BlogPost, error) {
	return s.getPost(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = ?`, slug)
}

func (s *Store) getPost(ctx context.Context, query, slug string) (BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, storageError(err)
	}
	return p, nil
}

// SlugExists reports whether a post other than excludeID owns slug.
// Pass 0 to check against every post.
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blog_posts WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	if err != nil {
		return false, storageError(err)
	}
	return n > 0, nil
}

// CreatePost inserts p and returns it with its id and timestamps set.
// Views always start at zero.
func (s *Store) CreatePost(ctx context.Context, p BlogPost) (BlogPost, error) {
	now := s.now().UTC()
	p.CreatedAt, p.UpdatedAt, p.Views = now, now, 0
	res, err := s.db.ExecContext(ctx, `INSERT INTO blog_posts
		(slug, title, content, content_preview, meta_title, meta_description,
		 author, category, label, is_draft, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		p.Slug, p.Title, p.Content, p.ContentPreview, p.MetaTitle, p.MetaDescription,
		p.Author, p.Category, p.Label, boolInt(p.IsDraft),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return BlogPost{}, writeError(err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return BlogPost{}, storageError(err)
	}
	return p, nil
}

// UpdatePost rewrites every editable field of the post with p.ID and bumps
// updated_at. The stored created_at and views are kept.
func (s *Store) UpdatePost(ctx context.Context, p BlogPost) (BlogPost, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE blog_posts SET
		slug = ?, title = ?, content = ?, content_preview = ?, meta_title = ?,
		meta_description = ?, author = ?, category = ?, label = ?, is_draft = ?,
		updated_at = ?
		WHERE id = ?`,
		p.Slug, p.Title, p.Content, p.ContentPreview, p.MetaTitle,
		p.MetaDescription, p.Author, p.Category, p.Label, boolInt(p.IsDraft),
		now.Format(timeLayout), p.ID)
	if err != nil {
		return BlogPost{}, writeError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return BlogPost{}, storageError(err)
	} else if n == 0 {
		return BlogPost{}, ErrNotFound
	}
	p.UpdatedAt = now
	return p, nil
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE slug = ?`, slug)
	if err != nil {
		return storageError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// writeError maps a UNIQUE violation on slug to ErrSlugInUse.
func writeError(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrSlugInUse
	}
	return storageError(err)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
