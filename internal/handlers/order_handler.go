package handlers

import (
	"market/internal/middleware"
	"market/internal/models"
	"market/internal/search"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require
// authentication; status changes are admin-only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", middleware.RequireRole(models.RoleAdmin), h.HandleUpdateOrderStatus)
}

// StatusRequest represents the request body for an order status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleCheckout turns the cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.service.Checkout(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err, "create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves the authenticated user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return respondError(c, err, "retrieve orders")
	}
	pageSize, err := queryInt(c, "page_size")
	if err != nil {
		return respondError(c, err, "retrieve orders")
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = search.DefaultPageSize
	}
	if pageSize > search.MaxPageSize {
		pageSize = search.MaxPageSize
	}

	orders, total, err := h.service.GetUserOrders(c.UserContext(), middleware.CurrentUser(c).ID, page, pageSize)
	if err != nil {
		return respondError(c, err, "retrieve orders")
	}
	return c.JSON(search.Result[models.Order]{
		Items:    orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "retrieve order")
	}
	order, err := h.service.GetOrderByID(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, err, "retrieve order")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus changes the status of an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "update order status")
	}
	var req StatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondError(c, err, "update order status")
	}
	return c.JSON(order)
}
