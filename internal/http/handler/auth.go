package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docsportal/internal/http/middleware"
	"docsportal/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges credentials for a token pair.
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      loginRequest  true  "Credentials"
// @Success  200   {object}  service.AuthResult
// @Failure  401   {object}  errorPayload
// @Router   /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Login(c.UserContext(), req.Email, req.Password, c.Get(fiber.HeaderUserAgent))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// Register creates an account and logs it in.
//
// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      service.RegisterRequest  true  "Account"
// @Success  200   {object}  service.AuthResult
// @Failure  400   {object}  errorPayload
// @Router   /api/auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Register(c.UserContext(), req, c.Get(fiber.HeaderUserAgent))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// Refresh rotates a refresh token.
//
// @Summary  Refresh tokens
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      refreshRequest  true  "Refresh token"
// @Success  200   {object}  service.AuthResult
// @Failure  400   {object}  errorPayload
// @Failure  401   {object}  errorPayload
// @Router   /api/auth/refresh [post]
func Refresh(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Refresh(c.UserContext(), req.RefreshToken)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// Logout revokes the caller's refresh token. The body is optional.
//
// @Summary   Log out
// @Tags      auth
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      refreshRequest  false  "Refresh token to revoke"
// @Success   200   {object}  messagePayload
// @Router    /api/auth/logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}
		if err := svc.Logout(c.UserContext(), middleware.UserIDFromCtx(c), req.RefreshToken); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(messagePayload{Message: "logged out"})
	}
}

// GetProfile returns the caller's account.
//
// @Summary   Current profile
// @Tags      auth
// @Security  BearerAuth
// @Produce   json
// @Success   200  {object}  model.User
// @Failure   404  {object}  errorPayload
// @Router    /api/auth/profile [get]
func GetProfile(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Profile(c.UserContext(), middleware.UserIDFromCtx(c))
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user not found")
			}
			return serviceError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateProfile edits the caller's name, department and job title.
//
// @Summary   Update profile
// @Tags      auth
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      service.ProfileUpdate  true  "Profile"
// @Success   200   {object}  model.User
// @Failure   400   {object}  errorPayload
// @Router    /api/auth/profile [put]
func UpdateProfile(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ProfileUpdate
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := svc.UpdateProfile(c.UserContext(), middleware.UserIDFromCtx(c), req)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "user not found")
			}
			return serviceError(c, err)
		}
		return c.JSON(u)
	}
}

// ChangePassword replaces the caller's password.
//
// @Summary   Change password
// @Tags      auth
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      service.ChangePasswordRequest  true  "Passwords"
// @Success   200   {object}  messagePayload
// @Failure   400   {object}  errorPayload
// @Router    /api/auth/change-password [post]
func ChangePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ChangePasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.ChangePassword(c.UserContext(), middleware.UserIDFromCtx(c), req); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(messagePayload{Message: "password changed"})
	}
}
