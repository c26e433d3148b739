package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	feedCacheKey = "instagram:feed"
	feedLimit    = 12
)

// RepositoryPort defines data access methods for feed posts.
type RepositoryPort interface {
	ListRecent(ctx context.Context, limit int) ([]Post, error)
	Create(ctx context.Context, input PostInput) (Post, error)
	Delete(ctx context.Context, id int64) error
}

// Service serves the feed with a Redis read-through cache. A nil redis
// client disables caching, every read goes to the database.
type Service struct {
	repo     RepositoryPort
	redis    *redis.Client
	logger   *slog.Logger
	cacheTTL time.Duration
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, rdb *redis.Client, logger *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, redis: rdb, logger: logger, cacheTTL: cacheTTL}
}

// Feed returns the recent posts, served from cache when possible. Cache
// failures degrade to database reads rather than failing the request.
func (s *Service) Feed(ctx context.Context) ([]Post, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, feedCacheKey).Bytes()
		switch {
		case err == nil:
			var posts []Post
			if err := json.Unmarshal(raw, &posts); err == nil {
				return posts, nil
			}
			s.logger.Warn("feed cache entry corrupt, rebuilding")
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("feed cache read failed", "error", err)
		}
	}

	posts, err := s.repo.ListRecent(ctx, feedLimit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	if s.redis != nil {
		if raw, err := json.Marshal(posts); err == nil {
			if err := s.redis.Set(ctx, feedCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("feed cache write failed", "error", err)
			}
		}
	}
	return posts, nil
}

// AddPost stores a feed entry and invalidates the cache.
func (s *Service) AddPost(ctx context.Context, input PostInput) (Post, error) {
	post, err := s.repo.Create(ctx, input)
	if err != nil {
		return Post{}, err
	}
	s.invalidate(ctx)
	return post, nil
}

// RemovePost deletes a feed entry and invalidates the cache.
func (s *Service) RemovePost(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, feedCacheKey).Err(); err != nil {
		s.logger.Warn("feed cache invalidation failed", "error", err)
	}
}
