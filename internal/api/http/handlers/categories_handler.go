package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loga115/ticketflow/internal/api/dto"
	"github.com/loga115/ticketflow/internal/repository"
	"github.com/loga115/ticketflow/internal/service"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// CategoriesHandler manages ticket category endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// Create POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Create(c.Context(), identity.OwnerID, service.CategoryCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// List GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	rows, err := h.categories.List(c.Context(), identity.OwnerID)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewCategoryResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	category, err := h.categories.Get(c.Context(), identity.OwnerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Update PATCH /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Update(c.Context(), identity.OwnerID, c.Params("id"), repository.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// Delete DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.Context(), identity.OwnerID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
