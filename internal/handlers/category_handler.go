package handlers

import (
	"market/internal/middleware"
	"market/internal/models"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes. Writes are admin-only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)

	admin := []fiber.Handler{auth, middleware.RequireRole(models.RoleAdmin)}
	categoryRoutes.Post("/", append(admin, h.HandleCreateCategory)...)
	categoryRoutes.Put("/:id", append(admin, h.HandleUpdateCategory)...)
	categoryRoutes.Delete("/:id", append(admin, h.HandleDeleteCategory)...)
}

// CategoryRequest represents the request body for creating or updating a category.
type CategoryRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	ParentID *uint  `json:"parent_id" validate:"omitempty,gt=0"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{Name: r.Name, ParentID: r.ParentID}
}

// HandleGetCategories retrieves all active categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		return respondError(c, err, "retrieve categories")
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	category, err := h.service.CreateCategory(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err, "create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "update category")
	}
	var req CategoryRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	category, err := h.service.UpdateCategory(c.UserContext(), id, req.input())
	if err != nil {
		return respondError(c, err, "update category")
	}
	return c.JSON(category)
}

// HandleDeleteCategory soft-deletes a category.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "delete category")
	}
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err, "delete category")
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}
