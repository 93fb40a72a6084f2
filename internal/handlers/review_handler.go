package handlers

import (
	"market/internal/middleware"
	"market/internal/models"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes. Buyers write reviews, admins
// remove them.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Get("/", h.HandleGetReviews)
	reviewRoutes.Get("/products/:id", h.HandleGetProductReviews)
	reviewRoutes.Post("/", auth, middleware.RequireRole(models.RoleBuyer), h.HandleCreateReview)
	reviewRoutes.Delete("/:id", auth, middleware.RequireRole(models.RoleAdmin), h.HandleDeleteReview)
}

// ReviewRequest represents the request body for a new review. The grade
// range is checked by the service.
type ReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Grade     int    `json:"grade"`
	Comment   string `json:"comment" validate:"max=1000"`
}

// HandleGetReviews retrieves all active reviews.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetAllReviews(c.UserContext())
	if err != nil {
		return respondError(c, err, "retrieve reviews")
	}
	return c.JSON(reviews)
}

// HandleGetProductReviews retrieves the active reviews of a product.
func (h *ReviewHandler) HandleGetProductReviews(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "retrieve reviews")
	}
	reviews, err := h.service.GetProductReviews(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "retrieve reviews")
	}
	return c.JSON(reviews)
}

// HandleCreateReview records the authenticated buyer's review.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	user := middleware.CurrentUser(c)
	review, err := h.service.CreateReview(c.UserContext(), user.ID, services.ReviewInput{
		ProductID: req.ProductID,
		Grade:     req.Grade,
		Comment:   req.Comment,
	})
	if err != nil {
		return respondError(c, err, "create review")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleDeleteReview soft-deletes a review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "delete review")
	}
	if err := h.service.DeleteReview(c.UserContext(), id); err != nil {
		return respondError(c, err, "delete review")
	}
	return c.JSON(fiber.Map{
		"message": "Review deleted successfully",
	})
}
