package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

const defaultCategoryColor = "#6366f1"

// CategoryService manages ticket categories. Category names feed the
// recommendation engine's specialization matching.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryCreateInput carries the fields accepted on creation.
type CategoryCreateInput struct {
	Name        string
	Description *string
	Color       string
	Icon        *string
}

// Create persists a category. Names are unique per owner; duplicates map to
// a conflict through the unique constraint.
func (s *CategoryService) Create(ctx context.Context, ownerID string, input CategoryCreateInput) (*domain.TicketCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	color := input.Color
	if color == "" {
		color = defaultCategoryColor
	}

	category := &domain.TicketCategory{
		OwnerID:     ownerID,
		Name:        name,
		Description: input.Description,
		Color:       color,
		Icon:        input.Icon,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, ownerID, categoryID string) (*domain.TicketCategory, error) {
	category, err := s.categories.GetByID(ctx, ownerID, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// List returns the owner's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, ownerID string) ([]domain.TicketCategory, error) {
	rows, err := s.categories.List(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// Update applies a partial update.
func (s *CategoryService) Update(ctx context.Context, ownerID, categoryID string, patch repository.CategoryPatch) (*domain.TicketCategory, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperrors.NewValidationError("name must not be empty", nil)
	}
	category, err := s.categories.Patch(ctx, ownerID, categoryID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category. Tickets referencing it keep existing with a
// null category and show up as Uncategorized.
func (s *CategoryService) Delete(ctx context.Context, ownerID, categoryID string) error {
	if err := s.categories.Delete(ctx, ownerID, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
