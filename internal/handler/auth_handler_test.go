package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go-stock-management/internal/middleware"
	"go-stock-management/internal/model"
	"go-stock-management/internal/service"
	"go-stock-management/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) FindByUsername(username string) (*model.User, error) {
	if r.user != nil && r.user.Username == username {
		return r.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(*model.User) error { return nil }
func (r *stubUserRepo) Save(*model.User) error   { return nil }

// stubAuthService records the id Me resolves, so the test can assert it came
// from the middleware locals rather than from the handler parsing headers.
type stubAuthService struct {
	gotUserID uuid.UUID
	user      model.UserResponse
}

func (s *stubAuthService) Login(username, password string) (*service.LoginResponse, error) {
	return nil, service.ErrInvalidCredentials
}

func (s *stubAuthService) CurrentUser(userID uuid.UUID) (*model.UserResponse, error) {
	s.gotUserID = userID
	return &s.user, nil
}

func (s *stubAuthService) Refresh(userID uuid.UUID) (*service.TokenResponse, error) {
	return nil, service.ErrUserNotFound
}

func TestAuthHandlerMe(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Username:  "admin",
		Role:      model.RoleAdmin,
		Active:    true,
	}
	tokens := jwt.NewManager("test-secret", 30)

	newApp := func(svc *stubAuthService) *fiber.App {
		app := fiber.New()
		h := NewAuthHandler(svc)
		app.Get("/api/auth/me", middleware.RequireAuth(&stubUserRepo{user: user}, tokens), h.Me)
		return app
	}

	t.Run("RejectsMissingToken", func(t *testing.T) {
		app := newApp(&stubAuthService{})

		resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil))
		require.NoError(t, err)
		require.Equal(t, 401, resp.StatusCode)
	})

	t.Run("RejectsInvalidToken", func(t *testing.T) {
		app := newApp(&stubAuthService{})

		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 401, resp.StatusCode)
	})

	t.Run("ResolvesUserFromContext", func(t *testing.T) {
		svc := &stubAuthService{user: user.ToResponse()}
		app := newApp(svc)

		token, err := tokens.GenerateToken(user.ID, user.Username, user.Role)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		require.Equal(t, user.ID, svc.gotUserID)

		var body struct {
			Username string `json:"username"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "admin", body.Username)
	})
}
