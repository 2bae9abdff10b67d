package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"callsim/internal/auth"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, deviceID, role string, guards ...gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handlers := []gin.HandlerFunc{func(c *gin.Context) {
		ctx := auth.WithIdentity(c.Request.Context(), deviceID, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}}
	handlers = append(handlers, guards...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })

	r := gin.New()
	r.GET("/x", handlers...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireAnyRole_AdminBypasses(t *testing.T) {
	if code := serve(t, "d", RoleAdmin, RequireDevice(), RequireAnyRole()); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireAnyRole_DeniesOtherRoles(t *testing.T) {
	if code := serve(t, "d", RoleViewer, RequireAnyRole(RoleOperator)); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
	if code := serve(t, "d", "root", RequireAnyRole("root")); code != http.StatusForbidden {
		t.Fatalf("unknown role: expected 403, got %d", code)
	}
	if code := serve(t, "d", RoleOperator, RequireAnyRole(RoleViewer, RoleOperator)); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireDevice(t *testing.T) {
	if code := serve(t, "", RoleOperator, RequireDevice()); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if code := serve(t, "d", "", RequireAnyRole(RoleViewer)); code != http.StatusUnauthorized {
		t.Fatalf("missing role: expected 401, got %d", code)
	}
}
