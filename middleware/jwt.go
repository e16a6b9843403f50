package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trainhub/config"
	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, userType models.UserType, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID,
		"userType": string(userType),
		"email":    email,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// ParseJWT validates the token string and returns its claims.
func ParseJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, utils.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, utils.Unauthorized("Invalid token payload")
	}
	return claims, nil
}

// JWTMiddleware checks the bearer token and loads the caller from the users
// table. The stored user type wins over the one in the token, and deactivated
// accounts are refused even while their token is still valid.
func JWTMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.Unauthorized("Missing or invalid Authorization header")
		}

		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.Unauthorized("Invalid Authorization header format")
		}

		claims, err := ParseJWT(strings.TrimSpace(authHeader[len("Bearer "):]))
		if err != nil {
			return err
		}

		// JWT numbers decode as float64
		userID, ok := claims["userId"].(float64)
		if !ok || userID <= 0 {
			return utils.Unauthorized("Invalid token payload")
		}

		var user models.User
		err = db.WithContext(c.UserContext()).
			Select("id", "email", "user_type", "is_active").
			Where("id = ?", uint(userID)).
			Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized("Account no longer exists")
		}
		if err != nil {
			return utils.Internal("Failed to load account")
		}
		if !user.IsActive {
			return utils.Forbidden("Your account is deactivated")
		}

		c.Locals("userId", user.ID)
		c.Locals("userType", user.UserType)
		c.Locals("email", user.Email)

		return c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by JWTMiddleware.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userId").(uint)
	return id
}

// CurrentUserType returns the authenticated user type set by JWTMiddleware.
func CurrentUserType(c *fiber.Ctx) models.UserType {
	t, _ := c.Locals("userType").(models.UserType)
	return t
}

// CurrentActor bundles the authenticated user for service calls.
func CurrentActor(c *fiber.Ctx) common.Actor {
	return common.Actor{ID: CurrentUserID(c), Type: CurrentUserType(c)}
}

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

func ValidationErrorResponse(c *fiber.Ctx, errors []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed!",
		"errors":  errors,
	})
}
