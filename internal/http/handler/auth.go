package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/auth"
	"docarchive/internal/domain"
)

// Authenticator exchanges admin credentials for a bearer token.
type Authenticator interface {
	Login(username, password string) (string, time.Time, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login issues a token for valid admin credentials.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"credentials"
//	@Success	200		{object}	loginResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	401		{object}	errorPayload
//	@Router		/auth/login [post]
func Login(a Authenticator, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
			return writeServiceError(c, logger, domain.NewValidation("username and password are required"))
		}
		token, exp, err := a.Login(req.Username, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		}
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(loginResponse{Token: token, ExpiresAt: exp})
	}
}
