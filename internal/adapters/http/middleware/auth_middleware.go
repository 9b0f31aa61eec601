package middleware

import (
	"errors"
	"strconv"
	"strings"

	"workpay-backend/internal/config"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/jwt"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// extractToken reads the access token from the cookie, then the
// Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == string(allowedRole) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// StaffOnly middleware allows managers and admins
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleAdmin)
}

// SelfOrStaff allows the request when the :param user ID is the caller's
// own, or when the caller is staff
func SelfOrStaff(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, err := strconv.ParseUint(c.Params(param), 10, 32)
		if err != nil || target == 0 {
			return response.BadRequest(c, "Invalid user ID")
		}
		if !CanActFor(c, uint(target)) {
			return response.Forbidden(c, "You can only access your own resources")
		}
		return c.Next()
	}
}

// CanActFor reports whether the authenticated caller may act on userID's data
func CanActFor(c *fiber.Ctx, userID uint) bool {
	if IsStaff(c) {
		return true
	}
	callerID, ok := c.Locals("userID").(uint)
	return ok && callerID == userID
}

// IsStaff reports whether the caller is a manager or admin
func IsStaff(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == string(domain.RoleAdmin) || role == string(domain.RoleManager)
}
