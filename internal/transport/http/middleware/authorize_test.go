package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/usecase"
)

type checkerStub struct {
	err error

	menuID string
	action string
}

func (s *checkerStub) Require(_ context.Context, _ *domain.User, menuID, action string) error {
	s.menuID = menuID
	s.action = action
	return s.err
}

func permissionTestRouter(checker PermissionChecker, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders",
		func(c *gin.Context) {
			if user != nil {
				c.Set(UserKey, user)
			}
		},
		RequirePermission(checker, domain.MenuOrders, domain.VerbView),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	return r
}

func TestRequirePermission_NoUser(t *testing.T) {
	r := permissionTestRouter(&checkerStub{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequirePermission_Denied(t *testing.T) {
	r := permissionTestRouter(&checkerStub{err: usecase.ErrPermissionDenied}, &domain.User{ID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequirePermission_CheckerError(t *testing.T) {
	r := permissionTestRouter(&checkerStub{err: errors.New("db down")}, &domain.User{ID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRequirePermission_Allowed(t *testing.T) {
	checker := &checkerStub{}
	r := permissionTestRouter(checker, &domain.User{ID: "user-1"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if checker.menuID != domain.MenuOrders || checker.action != domain.VerbView {
		t.Fatalf("checker received (%q, %q)", checker.menuID, checker.action)
	}
}
