package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errInvalidToken = apperror.New(apperror.CodeUnauthorized, "Invalid or malformed token", http.StatusUnauthorized)
	errTokenExpired = apperror.New(apperror.CodeUnauthorized, "Token has expired", http.StatusUnauthorized)
)

// AuthMiddleware validates the bearer token issued by the identity
// collaborator and copies actor and organization identity into the
// request context. Payroll itself never issues tokens.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := errInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = errTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		actorID, ok := claims["actor_id"].(string)
		if !ok || actorID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Actor ID not found in token", nil)
			c.Abort()
			return
		}

		orgID, ok := claims["org_id"].(string)
		if !ok || orgID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Organization ID not found in token", nil)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)

		c.Set("actor_id", actorID)
		c.Set("org_id", orgID)
		c.Set("role", role)

		ctx := contextutil.WithActorID(c.Request.Context(), actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
