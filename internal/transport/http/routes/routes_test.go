package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/infra/config"
	"github.com/tablehive/backoffice/internal/infra/security"
	httproutes "github.com/tablehive/backoffice/internal/transport/http/routes"
	"github.com/tablehive/backoffice/internal/usecase"
)

type tokenStub struct {
	claims *security.AccessClaims
	err    error
}

func (s *tokenStub) Verify(string) (*security.AccessClaims, error) {
	return s.claims, s.err
}

type userStub struct {
	user *domain.User
	err  error
}

func (s *userStub) GetByID(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

type authorizerStub struct {
	err error
}

func (s *authorizerStub) Require(context.Context, *domain.User, string, string) error {
	return s.err
}

func testEngine(t *testing.T, authorizer *authorizerStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	claims := &security.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}

	return httproutes.Register(httproutes.Dependencies{
		Config:     &config.AppConfig{App: config.AppSettings{Env: "test"}},
		Logger:     zap.NewNop(),
		Tokens:     &tokenStub{claims: claims},
		Users:      &userStub{user: &domain.User{ID: "user-1"}},
		Authorizer: authorizer,
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := testEngine(t, &authorizerStub{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	r := testEngine(t, &authorizerStub{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestMenuTreeRequiresRolesView(t *testing.T) {
	r := testEngine(t, &authorizerStub{err: usecase.ErrPermissionDenied})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menus", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestProtectedRouteDeniesWithoutPermission(t *testing.T) {
	r := testEngine(t, &authorizerStub{err: usecase.ErrPermissionDenied})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
