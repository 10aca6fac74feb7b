package handler

import (
	"context" // provides context with cancellation for store calls
	"errors"
	"log/slog"
	"net/http" // HTTP status codes and primitives
	"strings"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staywise/booking-api/internal/config"
	"github.com/staywise/booking-api/internal/model"
	"github.com/staywise/booking-api/internal/repository"
	"github.com/staywise/booking-api/internal/utils" // helper functions (hashing, token issuing)
)

// UserDirectory is the account storage the auth endpoints need.
type UserDirectory interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserDirectory
	Logger *slog.Logger
}

func NewAuthHandler(cfg config.Config, users UserDirectory, logger *slog.Logger) *AuthHandler {
	if users == nil {
		panic("nil user directory passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Logger: logger}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

func (r *signupReq) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	trim(&r.Name)
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginReq) normalize() { r.Email = strings.ToLower(strings.TrimSpace(r.Email)) }

// authUser is the user shape the client keeps next to its token.
type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toAuthUser(u *model.User) authUser {
	return authUser{ID: u.ID.Hex(), Email: u.Email, Name: u.Name, Role: u.Role}
}

// Signup creates a regular user and returns a token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		return serverError(c, h.Logger, "signup", err)
	}
	return h.issue(c, http.StatusCreated, "User registered successfully", u)
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.BurnPasswordCheck(req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return serverError(c, h.Logger, "login", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}
	return h.issue(c, http.StatusOK, "Login successful", u)
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return serverError(c, h.Logger, "profile", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toAuthUser(u)})
}

func (h *AuthHandler) issue(c echo.Context, status int, message string, u *model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID.Hex(), u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return serverError(c, h.Logger, "issue token", err)
	}
	return c.JSON(status, echo.Map{
		"message": message,
		"token":   access.Token,
		"user":    toAuthUser(u),
	})
}
