package albums

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	_ "github.com/shutterdesk/shutterdesk/testing"
)

func newSharedRouter(t *testing.T, repo *memRepo, now time.Time) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := newShareService(t, repo, now)
	h := NewHandler(logger, svc, auth.Middleware{})

	r := chi.NewRouter()
	r.Route("/shared", h.MountSharedRoutes)
	return r
}

func TestSharedAlbumEndpoint(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	token := "tok"
	expires := base.Add(time.Hour)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10,
		ShareToken: &token, ShareTokenExpires: &expires})
	router := newSharedRouter(t, repo, base)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/tok", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "shareToken") || strings.Contains(body, "passwordHash") {
		t.Errorf("secret fields leaked: %s", body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown token status = %d, want 404", rec.Code)
	}
}

func TestSharedAlbumExpiredTokenIs404(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	token := "tok"
	expires := base.Add(-time.Minute)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10,
		ShareToken: &token, ShareTokenExpires: &expires})
	router := newSharedRouter(t, repo, base)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shared/tok", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expired token status = %d, want 404", rec.Code)
	}
}

func TestSharedAlbumPasswordVerification(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	token := "tok"
	expires := base.Add(time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	hashed := string(hash)
	repo := newMemRepo(&Album{ID: 1, Title: "Wedding", CreatedBy: 10,
		ShareToken: &token, ShareTokenExpires: &expires, PasswordHash: &hashed})
	router := newSharedRouter(t, repo, base)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shared/tok/verify", strings.NewReader(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("wrong password status = %d, want 422", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/shared/tok/verify", strings.NewReader(`{"password":"sesame"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("correct password status = %d, want 200", rec.Code)
	}
}
