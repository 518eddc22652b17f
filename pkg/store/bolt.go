package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"artechway/pkg/models"
)

var articlesBucket = []byte("articles")

// errStopIteration stops a bucket scan early; never returned to callers.
var errStopIteration = errors.New("stop iteration")

// BoltStore is the document-oriented ArticleStore adapter. Articles live as
// JSON values in a single bucket keyed by id; filtering and ordering happen
// in memory, the way a document store without composite queries behaves.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens or creates the bbolt database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(articlesBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Create(ctx context.Context, form models.ArticleForm) (string, error) {
	a := newArticle(form)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)

		// Best-effort duplicate check: scan within the same write
		// transaction before inserting.
		err := b.ForEach(func(_, v []byte) error {
			var existing models.Article
			if err := json.Unmarshal(v, &existing); err != nil {
				return fmt.Errorf("decode article: %w", err)
			}
			if existing.Slug == a.Slug {
				return models.ErrDuplicateSlug
			}
			return nil
		})
		if err != nil {
			return err
		}

		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode article: %w", err)
		}
		return b.Put([]byte(a.ID), data)
	})
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

func (s *BoltStore) List(ctx context.Context, limit int, publishedOnly bool) ([]models.Article, error) {
	var articles []models.Article

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).ForEach(func(_, v []byte) error {
			var a models.Article
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("decode article: %w", err)
			}
			if publishedOnly && !a.IsPublished {
				return nil
			}
			articles = append(articles, a)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// The bucket has no secondary ordering: filter first, then sort.
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (s *BoltStore) GetByID(ctx context.Context, id string) (*models.Article, error) {
	var found *models.Article

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(articlesBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		var a models.Article
		if err := json.Unmarshal(v, &a); err != nil {
			return fmt.Errorf("decode article: %w", err)
		}
		found = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *BoltStore) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var found *models.Article

	err := s.db.View(func(tx *bolt.Tx) error {
		err := tx.Bucket(articlesBucket).ForEach(func(_, v []byte) error {
			var a models.Article
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("decode article: %w", err)
			}
			if a.Slug == slug && a.IsPublished {
				found = &a
				return errStopIteration
			}
			return nil
		})
		if errors.Is(err, errStopIteration) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *BoltStore) Update(ctx context.Context, id string, upd models.ArticleUpdate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)

		v := b.Get([]byte(id))
		if v == nil {
			return models.ErrNotFound
		}
		var a models.Article
		if err := json.Unmarshal(v, &a); err != nil {
			return fmt.Errorf("decode article: %w", err)
		}

		applyUpdate(&a, upd)

		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode article: %w", err)
		}
		return b.Put([]byte(id), data)
	})
}

func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(articlesBucket).Delete([]byte(id))
	})
}
