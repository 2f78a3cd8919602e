package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

func TestCreateCategoryDefaults(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	category, err := svc.Create(context.Background(), testOwner, CategoryCreateInput{Name: "  Backend  "})
	require.NoError(t, err)
	assert.Equal(t, "Backend", category.Name, "name is trimmed")
	assert.Equal(t, defaultCategoryColor, category.Color)

	_, err = svc.Create(context.Background(), testOwner, CategoryCreateInput{Name: "   "})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateCategory(t *testing.T) {
	repo := newFakeCategoryRepo(domain.TicketCategory{ID: "cat-1", OwnerID: testOwner, Name: "Backend", Color: "#000000"})
	svc := NewCategoryService(repo)

	name := "Platform"
	updated, err := svc.Update(context.Background(), testOwner, "cat-1", repository.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Platform", updated.Name)

	_, err = svc.Update(context.Background(), testOwner, "cat-1", repository.CategoryPatch{})
	require.Error(t, err, "an empty patch is rejected")
}

func TestCategoryCrossTenantIsNotFound(t *testing.T) {
	repo := newFakeCategoryRepo(domain.TicketCategory{ID: "cat-1", OwnerID: "other-owner", Name: "Backend"})
	svc := NewCategoryService(repo)

	_, err := svc.Get(context.Background(), testOwner, "cat-1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	err = svc.Delete(context.Background(), testOwner, "cat-1")
	require.Error(t, err)
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
