package middleware

import (
	"net/http"

	"go-payroll/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextActorID ContextKey = "actor_id"
	ContextOrgID   ContextKey = "org_id"
)

// RBACService is a local interface so any package exposing
// Enforce(domain.EnforceRequest) can be plugged in.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok1 := c.Get(string(ContextActorID))
		orgID, ok2 := c.Get(string(ContextOrgID))

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			ActorID:  actorID.(string),
			OrgID:    orgID.(string),
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
