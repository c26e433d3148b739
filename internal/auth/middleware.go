package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shutterdesk/shutterdesk/internal/observability"
	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

// UserLoader fetches the active user record behind a verified credential.
type UserLoader interface {
	FindActiveByID(ctx context.Context, id int64) (*User, error)
}

// PermissionResolver computes the effective permission set for a user:
// role defaults united with explicit grants, deduplicated. It must be
// read-only and idempotent.
type PermissionResolver interface {
	EffectivePermissions(ctx context.Context, userID int64, role string) ([]string, error)
}

// Middleware is the request-time authorization gate. Every protected route
// runs extract -> verify -> load -> resolve -> authorize -> attach, terminal
// on the first failure.
type Middleware struct {
	Verifier    *TokenVerifier
	Users       UserLoader
	Permissions PermissionResolver
	Logger      *slog.Logger
	Metrics     *observability.Metrics
}

// Authenticated requires a valid credential but no particular permission.
func (m Middleware) Authenticated() func(http.Handler) http.Handler {
	return m.RequireAny()
}

// RequireAny ensures the caller is authenticated and holds at least one of the
// required permissions. An empty requirement list means authenticated-only.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	required := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.Verifier.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				m.unauthorized(w, r, err, 0)
				return
			}

			user, err := m.Users.FindActiveByID(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, ErrUserNotFoundOrInactive) {
					m.internal(w, r, err)
					return
				}
				m.unauthorized(w, r, ErrUserNotFoundOrInactive, claims.UserID)
				return
			}

			granted, err := m.Permissions.EffectivePermissions(r.Context(), user.ID, user.Role)
			if err != nil {
				m.internal(w, r, err)
				return
			}

			if !hasAnyPermission(granted, required) {
				m.forbidden(w, r, user.ID, required)
				return
			}

			principal := &Principal{
				ID:          user.ID,
				Email:       user.Email,
				Name:        user.Name,
				Role:        user.Role,
				Permissions: granted,
			}
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the uniform 401 response. The specific failure category
// is logged and counted, never sent to the client.
func (m Middleware) unauthorized(w http.ResponseWriter, r *http.Request, err error, userID int64) {
	category := failureCategory(err)
	if m.Logger != nil {
		attrs := []any{
			slog.String("category", category),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		}
		if userID != 0 {
			attrs = append(attrs, slog.Int64("user_id", userID))
		}
		m.Logger.Warn("authentication failed", attrs...)
	}
	m.Metrics.ObserveAuthFailure(category)
	httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
}

func (m Middleware) forbidden(w http.ResponseWriter, r *http.Request, userID int64, required []string) {
	if m.Logger != nil {
		m.Logger.Warn("insufficient permission",
			slog.Int64("user_id", userID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("required", required),
		)
	}
	m.Metrics.ObserveAuthFailure("insufficient_permission")
	httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permission")
}

func (m Middleware) internal(w http.ResponseWriter, r *http.Request, err error) {
	if m.Logger != nil {
		m.Logger.Error("authorization middleware",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func failureCategory(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrExpiredCredential):
		return "expired_credential"
	case errors.Is(err, ErrUserNotFoundOrInactive):
		return "user_not_found_or_inactive"
	default:
		return "invalid_credential"
	}
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}

func hasAnyPermission(granted []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[strings.ToLower(p)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}
