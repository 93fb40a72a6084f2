// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"market/internal/apperr"
	"market/internal/cache"
	"market/internal/config"
	"market/internal/handlers"
	"market/internal/middleware"
	"market/internal/repositories"
	"market/internal/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Deps are the external resources the application runs on.
type Deps struct {
	DB        *gorm.DB
	Cache     cache.Store
	Publisher services.EventPublisher
	Config    *config.Config
	// BcryptCost overrides bcrypt.DefaultCost when non-zero.
	BcryptCost int
}

// New builds the HTTP application. When an admin account is configured it is
// created on the first start.
func New(ctx context.Context, deps Deps) (*fiber.App, error) {
	cfg := deps.Config

	// --- Initialize Repositories ---
	tx := repositories.NewGORMTransactor(deps.DB)
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	reviewRepo := repositories.NewGORMReviewRepository(deps.DB)
	cartRepo := repositories.NewGORMCartRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)

	// --- Initialize Services ---
	tokens, err := services.NewTokenService(services.TokenConfig{
		Secret:        cfg.JWTSecret,
		Algorithm:     cfg.JWTAlgorithm,
		AccessExpire:  cfg.AccessTokenExpire,
		RefreshExpire: cfg.RefreshTokenExpire,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	authService := services.NewAuthService(userRepo, tokens, services.BcryptHasher{Cost: cost})
	categoryService := services.NewCategoryService(categoryRepo, deps.Cache, cfg.CategoryCacheTTL)
	productService := services.NewProductService(productRepo, categoryRepo)
	ratings := services.NewRatingAggregator(reviewRepo, productRepo)
	reviewService := services.NewReviewService(tx, reviewRepo, productRepo, ratings)
	cartService := services.NewCartService(tx, cartRepo, productRepo)
	orderService := services.NewOrderService(tx, orderRepo, cartRepo, productRepo, deps.Publisher)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "market",
		ErrorHandler: errorHandler,
	})
	middleware.SetupMiddleware(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	auth := middleware.AuthRequired(authService)
	handlers.NewUserHandler(authService, handlers.CookieConfig{
		MaxAge: cfg.CookieMaxAge,
		Secure: cfg.CookieSecure,
	}).RegisterRoutes(app, auth)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(app, auth)
	handlers.NewProductHandler(productService).RegisterRoutes(app, auth)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(app, auth)
	handlers.NewCartHandler(cartService).RegisterRoutes(app, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app, auth)

	return app, nil
}

// errorHandler reports errors that handlers returned instead of writing a
// response themselves, including recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	code := apperr.StatusCode(err)
	msg := apperr.Message(err)

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		msg = fiberErr.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": msg,
	})
}
