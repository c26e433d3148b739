package rbac

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shutterdesk/shutterdesk/internal/platform/db"
)

// Service resolves effective permissions and administers explicit grants.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// EffectivePermissions returns the union of the role's default permissions and
// the user's explicit grants, deduplicated and sorted. Read-only.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64, role string) ([]string, error) {
	grants, err := s.ListGrants(ctx, userID)
	if err != nil {
		return nil, err
	}
	return MergePermissions(DefaultRolePermissions(role), grants), nil
}

// ListGrants returns the explicit permission grants for a user.
func (s *Service) ListGrants(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT permission FROM user_permissions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var grants []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		grants = append(grants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

// ReplaceGrants swaps the user's explicit grants for the given set. Delete and
// insert run inside one transaction so a failure mid-way leaves the previous
// grants intact instead of an empty set.
func (s *Service) ReplaceGrants(ctx context.Context, userID int64, names []string) error {
	normalized := normalizeGrantNames(names)
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, name := range normalized {
			if _, err := tx.Exec(ctx, `INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)`, userID, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rbac: replace grants for user %d: %w", userID, err)
	}
	return nil
}

// MergePermissions unions two permission lists, removing duplicates. The
// result is sorted so resolution is order-independent.
func MergePermissions(defaults, grants []string) []string {
	set := make(map[string]struct{}, len(defaults)+len(grants))
	for _, p := range defaults {
		set[p] = struct{}{}
	}
	for _, p := range grants {
		set[p] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for p := range set {
		merged = append(merged, p)
	}
	sort.Strings(merged)
	return merged
}

func normalizeGrantNames(names []string) []string {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
