package server

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "quill-id"
	tokenAudience = "quill"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePage returns the requested 1-based page number; 0 means "not requested".
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 0)
	if page < 0 {
		return 0
	}
	return page
}

// respondServiceError maps an AppError from the service layer onto an HTTP
// status. Unknown errors become 500s.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusForbidden, err)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// loginRedirect sends the browser to the login path with a next parameter
// pointing back at the original path.
func loginRedirect(c *fiber.Ctx) error {
	return c.Redirect("/auth/login?next="+url.QueryEscape(c.Path()), fiber.StatusFound)
}

// parseToken validates a bearer token minted by the identity provider and
// returns its subject (the username) and display name claim.
func (s *Server) parseToken(tokenString string) (username, displayName string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.IdentitySecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", models.NewUnauthorizedError("Invalid token claims")
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return "", "", models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return "", "", models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", models.NewUnauthorizedError("Invalid subject claim")
	}

	name, _ := claims["name"].(string)
	return sub, name, nil
}

// bearerToken pulls the token out of the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired returns the authentication middleware. Unauthenticated
// requests are redirected to the login path with a next parameter.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return loginRedirect(c)
		}

		username, displayName, err := s.parseToken(tokenString)
		if err != nil {
			return loginRedirect(c)
		}

		// Provision the local account row on first sight of this identity.
		user := &models.User{Username: username, DisplayName: displayName}
		if err := s.userRepo.Upsert(c.Context(), user); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}

		c.Locals("userID", user.ID)
		c.Locals("username", user.Username)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID resolves the viewer from the Authorization header but does
// not enforce authentication. Returns (0, false) for anonymous viewers.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return 0, false
	}
	username, _, err := s.parseToken(tokenString)
	if err != nil {
		return 0, false
	}
	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return 0, false
	}
	return user.ID, true
}
