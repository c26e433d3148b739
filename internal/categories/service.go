package categories

import (
	"context"
	"fmt"

	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
)

// RepositoryPort defines data access methods for portfolio categories.
type RepositoryPort interface {
	ListAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id int64) (Category, error)
	FindBySlug(ctx context.Context, slug string) (Category, error)
	Create(ctx context.Context, input CategoryInput) (Category, error)
	Update(ctx context.Context, id int64, input CategoryInput) (Category, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles portfolio category logic. Categories have no owner;
// mutation rights are enforced at the route level.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListAll(ctx)
}

// GetCategory returns one category by id.
func (s *Service) GetCategory(ctx context.Context, id int64) (Category, error) {
	return s.repo.FindByID(ctx, id)
}

// GetCategoryBySlug returns one category by its public slug.
func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// CreateCategory inserts a category, deriving the slug from the name
// when none is given.
func (s *Service) CreateCategory(ctx context.Context, input CategoryInput) (Category, error) {
	normalized, err := normalize(input)
	if err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, normalized)
}

// UpdateCategory replaces a category's fields.
func (s *Service) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (Category, error) {
	normalized, err := normalize(input)
	if err != nil {
		return Category{}, err
	}
	return s.repo.Update(ctx, id, normalized)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func normalize(input CategoryInput) (CategoryInput, error) {
	if input.Slug == "" {
		input.Slug = Slugify(input.Name)
	} else {
		input.Slug = Slugify(input.Slug)
	}
	if input.Slug == "" {
		return CategoryInput{}, fmt.Errorf("%w: category name yields an empty slug", httpx.ErrValidation)
	}
	return input, nil
}
