package handlers

import (
	"log"
	"strings"
	"time"

	"market/internal/middleware"
	"market/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	MaxAge int // seconds
	Secure bool
}

// UserHandler handles HTTP requests for accounts and authentication.
type UserHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	cookie      CookieConfig
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, cookie CookieConfig) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    validator.New(),
		cookie:      cookie,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleRegister)
	userRoutes.Post("/token", h.HandleLogin)
	userRoutes.Post("/refresh", h.HandleRefresh)
	userRoutes.Post("/logout", h.HandleLogout)
	userRoutes.Get("/me", auth, h.HandleMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer seller"`
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, err, "register user")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the login form. It is accepted as JSON or as a
// url-encoded form, with "username" as an alias for the email.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required_without=Username"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin checks credentials, returns an access token and sets the
// refresh token cookie.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err)
	}
	email := req.Email
	if email == "" {
		email = req.Username
	}

	pair, err := h.authService.LoginUser(c.UserContext(), email, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", email, err)
		return respondError(c, err, "log in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   h.cookie.MaxAge,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{
		"access_token": pair.AccessToken,
		"token_type":   "bearer",
	})
}

// RefreshRequest optionally carries the refresh token in the body for
// clients that cannot send cookies.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// HandleRefresh exchanges a refresh token for a new access token. The
// refresh token itself is not rotated.
func (h *UserHandler) HandleRefresh(c *fiber.Ctx) error {
	token := c.Cookies(RefreshCookieName)
	if token == "" && len(c.Body()) > 0 {
		var req RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			token = strings.TrimSpace(req.RefreshToken)
		}
	}

	access, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return respondError(c, err, "refresh token")
	}
	return c.JSON(fiber.Map{
		"access_token": access,
		"token_type":   "bearer",
	})
}

// HandleLogout clears the refresh token cookie.
func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// HandleMe returns the authenticated user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}
