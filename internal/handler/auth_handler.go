package handler

import (
	"errors"

	"go-stock-management/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	resp, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			return c.Status(401).JSON(fiber.Map{"error": "Incorrect username or password"})
		}
		return errorJSON(c, err)
	}
	return c.JSON(resp)
}

// Me returns the profile of the authenticated user. The route sits behind
// the auth middleware, which validates the token and sets the locals.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	user, err := h.service.CurrentUser(userID)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Could not validate credentials"})
	}
	return c.JSON(user)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	token, err := h.service.Refresh(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(token)
}

// Logout is stateless: tokens are short-lived and simply discarded by the
// client. The endpoint exists so clients have a uniform call to make.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}
