package handlers

import (
	"fmt"
	"strconv"

	"market/internal/apperr"
	"market/internal/middleware"
	"market/internal/models"
	"market/internal/search"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Writes are seller-only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleSearchProducts)
	productRoutes.Get("/category/:id", h.HandleGetProductsByCategory)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	seller := []fiber.Handler{auth, middleware.RequireRole(models.RoleSeller)}
	productRoutes.Post("/", append(seller, h.HandleCreateProduct)...)
	productRoutes.Put("/:id", append(seller, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", append(seller, h.HandleDeleteProduct)...)
}

// ProductRequest represents the request body for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url" validate:"max=200"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  uint            `json:"category_id" validate:"required"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}
}

// HandleSearchProducts searches active products. Supported query parameters:
// q, category_id, min_price, max_price, in_stock, seller_id, page, page_size.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	params, err := parseSearchParams(c)
	if err != nil {
		return respondError(c, err, "search products")
	}

	result, err := h.service.SearchProducts(c.UserContext(), params)
	if err != nil {
		return respondError(c, err, "search products")
	}
	return c.JSON(result)
}

func parseSearchParams(c *fiber.Ctx) (search.Params, error) {
	params := search.Params{Query: c.Query("q")}
	var err error

	if params.CategoryID, err = queryUint(c, "category_id"); err != nil {
		return params, err
	}
	if params.SellerID, err = queryUint(c, "seller_id"); err != nil {
		return params, err
	}
	if params.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return params, err
	}
	if params.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return params, err
	}
	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return params, apperr.BadRequest("Invalid in_stock")
		}
		params.InStock = &inStock
	}
	if params.Page, err = queryInt(c, "page"); err != nil {
		return params, err
	}
	if params.PageSize, err = queryInt(c, "page_size"); err != nil {
		return params, err
	}
	return params, nil
}

func queryUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("Invalid %s", key))
	}
	id := uint(v)
	return &id, nil
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("Invalid %s", key))
	}
	return &v, nil
}

// queryInt returns 0 for a missing parameter so that defaults apply.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v == 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("Invalid %s", key))
	}
	return v, nil
}

// HandleGetProductsByCategory lists the active products of a category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "retrieve products")
	}
	products, err := h.service.GetProductsByCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "retrieve product")
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct lists a new product for the authenticated seller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	seller := middleware.CurrentUser(c)
	product, err := h.service.CreateProduct(c.UserContext(), seller.ID, req.input())
	if err != nil {
		return respondError(c, err, "create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a product owned by the authenticated seller.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "update product")
	}
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	seller := middleware.CurrentUser(c)
	product, err := h.service.UpdateProduct(c.UserContext(), seller.ID, id, req.input())
	if err != nil {
		return respondError(c, err, "update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product owned by the authenticated seller.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "delete product")
	}
	seller := middleware.CurrentUser(c)
	if err := h.service.DeleteProduct(c.UserContext(), seller.ID, id); err != nil {
		return respondError(c, err, "delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
