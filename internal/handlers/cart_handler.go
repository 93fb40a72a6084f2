package handlers

import (
	"market/internal/middleware"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require authentication.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:product_id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:product_id", h.HandleRemoveItem)
}

// AddItemRequest represents the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

// UpdateItemRequest represents the request body for changing a line quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleGetCart returns the cart with its totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err, "retrieve cart")
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	cart, err := h.service.AddItem(c.UserContext(), middleware.CurrentUser(c).ID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err, "add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	productID, err := paramID(c, "product_id")
	if err != nil {
		return respondError(c, err, "update cart item")
	}
	var req UpdateItemRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	cart, err := h.service.UpdateItem(c.UserContext(), middleware.CurrentUser(c).ID, productID, req.Quantity)
	if err != nil {
		return respondError(c, err, "update cart item")
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID, err := paramID(c, "product_id")
	if err != nil {
		return respondError(c, err, "remove cart item")
	}
	if err := h.service.RemoveItem(c.UserContext(), middleware.CurrentUser(c).ID, productID); err != nil {
		return respondError(c, err, "remove cart item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err, "clear cart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
