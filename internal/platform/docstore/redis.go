package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/reviewgraph-backend/internal/domain/review"
	"github.com/yungbote/reviewgraph-backend/internal/platform/logger"
)

// ErrNotFound is returned by Get when no document exists for the key.
var ErrNotFound = errors.New("docstore: document not found")

type Config struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix names the document collection; every key is prefix + review id.
	KeyPrefix string
}

// Store is a Redis-backed document collection for review text, keyed by the
// Review surrogate id.
type Store struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func New(cfg Config, log *logger.Logger) (*Store, error) {
	if log == nil {
		return nil, fmt.Errorf("docstore: logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("docstore: missing redis addr")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "reviewdoc:"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("docstore: redis ping: %w", err)
	}

	return &Store{
		log:    log.With("client", "DocStore"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (s *Store) key(reviewID int64) string {
	return s.prefix + strconv.FormatInt(reviewID, 10)
}

func (s *Store) Upsert(ctx context.Context, reviewID int64, doc *review.ReviewDocument) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("docstore: not initialized")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: marshal document %d: %w", reviewID, err)
	}
	if err := s.rdb.Set(ctx, s.key(reviewID), raw, 0).Err(); err != nil {
		return fmt.Errorf("docstore: upsert document %d: %w", reviewID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, reviewID int64) (*review.ReviewDocument, error) {
	if s == nil || s.rdb == nil {
		return nil, fmt.Errorf("docstore: not initialized")
	}
	raw, err := s.rdb.Get(ctx, s.key(reviewID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: get document %d: %w", reviewID, err)
	}
	var doc review.ReviewDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: unmarshal document %d: %w", reviewID, err)
	}
	return &doc, nil
}

// DropCollection deletes every document under the collection prefix. A fresh
// load starts from an empty collection, mirroring the relational rebuild.
func (s *Store) DropCollection(ctx context.Context) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("docstore: not initialized")
	}
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 500).Result()
		if err != nil {
			return fmt.Errorf("docstore: scan collection: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("docstore: drop collection: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
