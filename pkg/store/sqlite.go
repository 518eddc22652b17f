package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"artechway/pkg/models"
)

// SQLiteStore is the relational ArticleStore adapter.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrency between public reads and admin writes
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		author_name TEXT NOT NULL DEFAULT '',
		excerpt TEXT NOT NULL DEFAULT '',
		is_published BOOLEAN NOT NULL DEFAULT 1,
		cover_image_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(is_published);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const articleColumns = `id, title, slug, content, category, author_name, excerpt, is_published, cover_image_url, created_at, updated_at`

func (s *SQLiteStore) Create(ctx context.Context, form models.ArticleForm) (string, error) {
	a := newArticle(form)

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE slug = ?)`, a.Slug).Scan(&exists)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return "", models.ErrDuplicateSlug
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Slug, a.Content, a.Category, a.AuthorName,
		a.Excerpt, a.IsPublished, a.CoverImageURL, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		// The unique index catches creates that raced past the check.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return "", models.ErrDuplicateSlug
		}
		return "", fmt.Errorf("insert article: %w", err)
	}
	return a.ID, nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int, publishedOnly bool) ([]models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	if publishedOnly {
		query += ` WHERE is_published = 1`
	}
	query += ` ORDER BY created_at DESC`

	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return s.getOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
}

func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	// Public slug resolution never surfaces drafts.
	return s.getOne(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND is_published = 1`, slug)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg any) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, upd models.ArticleUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	a, err := scanArticle(tx.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	applyUpdate(&a, upd)

	_, err = tx.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, slug = ?, content = ?, category = ?, author_name = ?,
		    excerpt = ?, is_published = ?, cover_image_url = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Slug, a.Content, a.Category, a.AuthorName,
		a.Excerpt, a.IsPublished, a.CoverImageURL, a.UpdatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Category, &a.AuthorName,
		&a.Excerpt, &a.IsPublished, &a.CoverImageURL, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
