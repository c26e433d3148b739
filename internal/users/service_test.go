package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

type memRepo struct {
	users       map[int64]*User
	hashes      map[int64]string
	nextID      int64
	deactivated []int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]*User), hashes: make(map[int64]string), nextID: 1}
}

func (r *memRepo) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memRepo) GetUser(ctx context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return *u, nil
}

func (r *memRepo) CreateUser(ctx context.Context, input NewUser, passwordHash string) (User, error) {
	for _, u := range r.users {
		if u.Email == input.Email {
			return User{}, httpx.ErrDuplicate
		}
	}
	u := &User{ID: r.nextID, Name: input.Name, Email: input.Email, Username: input.Username, Role: input.Role, IsActive: true}
	r.users[u.ID] = u
	r.hashes[u.ID] = passwordHash
	r.nextID++
	return *u, nil
}

func (r *memRepo) DeactivateUser(ctx context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.IsActive = false
	r.deactivated = append(r.deactivated, id)
	return nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	user, err := svc.CreateUser(context.Background(), NewUser{
		Name: "Ana", Email: "ana@studio.test", Username: "ana", Role: "photographer", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hash := repo.hashes[user.ID]
	if hash == "hunter22" || hash == "" {
		t.Fatal("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")); err != nil {
		t.Fatalf("hash mismatch: %v", err)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.CreateUser(context.Background(), NewUser{
		Name: "Bob", Email: "bob@studio.test", Username: "bob", Role: "wizard", Password: "x",
	})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	input := NewUser{Name: "Ana", Email: "ana@studio.test", Username: "ana", Role: "editor", Password: "hunter22"}

	if _, err := svc.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), input); !errors.Is(err, httpx.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestDeactivateUser(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	user, err := svc.CreateUser(context.Background(), NewUser{
		Name: "Ana", Email: "ana@studio.test", Username: "ana", Role: "editor", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeactivateUser(context.Background(), user.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, err := svc.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsActive {
		t.Error("user still active")
	}

	if err := svc.DeactivateUser(context.Background(), 999); !errors.Is(err, httpx.ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}
