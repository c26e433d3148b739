package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	byEmail       map[string]*User
	byID          map[int64]*User
	lastLoginSet  []int64
	lastLoginErr  error
	passwordStore map[int64]string
}

func newMemRepo(users ...*User) *memRepo {
	r := &memRepo{
		byEmail:       make(map[string]*User),
		byID:          make(map[int64]*User),
		passwordStore: make(map[int64]string),
	}
	for _, u := range users {
		r.byEmail[u.Email] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *memRepo) FindActiveByID(ctx context.Context, id int64) (*User, error) {
	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return nil, ErrUserNotFoundOrInactive
	}
	return u, nil
}

func (r *memRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFoundOrInactive
	}
	return u, nil
}

func (r *memRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	r.lastLoginSet = append(r.lastLoginSet, id)
	return r.lastLoginErr
}

func (r *memRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	r.passwordStore[id] = hash
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	user := &User{ID: 1, Email: "mia@studio.test", Role: "admin", IsActive: true,
		PasswordHash: mustHash(t, "correct-horse")}
	repo := newMemRepo(user)
	svc := NewService(repo, NewTokenVerifier("secret", time.Hour), nil)

	got, token, err := svc.Login(context.Background(), "mia@studio.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != 1 || token == "" {
		t.Fatalf("unexpected result: user=%v token=%q", got, token)
	}
	if len(repo.lastLoginSet) != 1 || repo.lastLoginSet[0] != 1 {
		t.Errorf("last login not stamped: %v", repo.lastLoginSet)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	active := &User{ID: 1, Email: "mia@studio.test", Role: "admin", IsActive: true,
		PasswordHash: mustHash(t, "correct-horse")}
	inactive := &User{ID: 2, Email: "old@studio.test", Role: "editor", IsActive: false,
		PasswordHash: mustHash(t, "whatever")}
	repo := newMemRepo(active, inactive)
	svc := NewService(repo, NewTokenVerifier("secret", time.Hour), nil)

	cases := []struct {
		name            string
		email, password string
	}{
		{"unknown email", "nobody@studio.test", "correct-horse"},
		{"wrong password", "mia@studio.test", "wrong"},
		{"inactive account", "old@studio.test", "whatever"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	user := &User{ID: 1, Email: "mia@studio.test", Role: "admin", IsActive: true,
		PasswordHash: mustHash(t, "correct-horse")}
	repo := newMemRepo(user)
	repo.lastLoginErr = errors.New("connection reset")
	svc := NewService(repo, NewTokenVerifier("secret", time.Hour), nil)

	_, token, err := svc.Login(context.Background(), "mia@studio.test", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected token despite last-login failure")
	}
}

func TestChangePassword(t *testing.T) {
	user := &User{ID: 4, Email: "rob@studio.test", Role: "editor", IsActive: true,
		PasswordHash: mustHash(t, "old-pass")}
	repo := newMemRepo(user)
	svc := NewService(repo, NewTokenVerifier("secret", time.Hour), nil)

	if err := svc.ChangePassword(context.Background(), 4, "bad", "new-pass-123"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("err = %v, want ErrPasswordMismatch", err)
	}
	if err := svc.ChangePassword(context.Background(), 4, "old-pass", "new-pass-123"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	stored, ok := repo.passwordStore[4]
	if !ok {
		t.Fatal("new hash not stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-pass-123")); err != nil {
		t.Errorf("stored hash does not match new password: %v", err)
	}
}
