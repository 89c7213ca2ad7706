package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/usecase"
)

// PermissionChecker gates a user's access to an action on a menu. A denial
// is reported as usecase.ErrPermissionDenied; any other error means the
// check itself could not run.
type PermissionChecker interface {
	Require(ctx context.Context, user *domain.User, menuID, action string) error
}

// RequirePermission gates a route on the authenticated user holding the
// given action on the given menu. Must run after RequireAuth.
func RequirePermission(checker PermissionChecker, menuID, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if err := checker.Require(c.Request.Context(), user, menuID, action); err != nil {
			if errors.Is(err, usecase.ErrPermissionDenied) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					newErrorResponse(c, "insufficient permissions"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authorization check failed"))
			return
		}

		c.Next()
	}
}
