package instagram

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type memRepo struct {
	posts     []Post
	listCalls int
}

func (r *memRepo) ListRecent(ctx context.Context, limit int) ([]Post, error) {
	r.listCalls++
	if len(r.posts) > limit {
		return r.posts[:limit], nil
	}
	return r.posts, nil
}

func (r *memRepo) Create(ctx context.Context, input PostInput) (Post, error) {
	p := Post{ID: int64(len(r.posts) + 1), MediaURL: input.MediaURL, Permalink: input.Permalink, PostedAt: input.PostedAt}
	r.posts = append([]Post{p}, r.posts...)
	return p, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func newCachedService(t *testing.T) (*Service, *memRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &memRepo{posts: []Post{
		{ID: 1, MediaURL: "http://ig.test/a.jpg", Permalink: "http://ig.test/p/a", PostedAt: time.Now()},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, rdb, logger, 10*time.Minute), repo, mr
}

func TestFeedCachesSecondRead(t *testing.T) {
	svc, repo, _ := newCachedService(t)

	first, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("feed lengths: %d, %d", len(first), len(second))
	}
	if repo.listCalls != 1 {
		t.Fatalf("repo hit %d times, want 1", repo.listCalls)
	}
}

func TestFeedCacheExpires(t *testing.T) {
	svc, repo, mr := newCachedService(t)

	if _, err := svc.Feed(context.Background()); err != nil {
		t.Fatalf("first read: %v", err)
	}
	mr.FastForward(11 * time.Minute)
	if _, err := svc.Feed(context.Background()); err != nil {
		t.Fatalf("read after expiry: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("repo hit %d times, want 2", repo.listCalls)
	}
}

func TestAddPostInvalidatesCache(t *testing.T) {
	svc, repo, _ := newCachedService(t)

	if _, err := svc.Feed(context.Background()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if _, err := svc.AddPost(context.Background(), PostInput{
		MediaURL:  "http://ig.test/b.jpg",
		Permalink: "http://ig.test/p/b",
		PostedAt:  time.Now(),
	}); err != nil {
		t.Fatalf("add post: %v", err)
	}

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("read after add: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(feed))
	}
	if repo.listCalls != 2 {
		t.Fatalf("repo hit %d times, want 2", repo.listCalls)
	}
}

func TestFeedWithoutRedisFallsBackToRepo(t *testing.T) {
	repo := &memRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, nil, logger, time.Minute)

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if feed == nil {
		t.Fatal("feed must be non-nil even when empty")
	}
}
