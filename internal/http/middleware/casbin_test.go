package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestEnforcer builds an enforcer on the same model the app ships
// (keyMatch2 objects, regexMatch actions) with the default route
// policies seeded at startup.
func createTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	modelText := `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`
	m, err := model.NewModelFromString(modelText)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)

	e.AddPolicy("role_admin", "/auth/*", "(GET|POST)")
	e.AddPolicy("role_admin", "/2fa/*", "POST")
	e.AddPolicy("role_user", "/auth/me", "GET")
	e.AddPolicy("role_user", "/auth/validate-session", "GET")
	e.AddPolicy("role_user", "/auth/logout", "POST")
	e.AddPolicy("role_user", "/2fa/setup", "POST")
	e.AddPolicy("role_user", "/2fa/verify", "POST")
	e.AddPolicy("role_user", "/2fa/disable", "POST")
	return e
}

func TestCasbinMW_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		roles          []string
		method         string
		path           string
		expectedStatus int
	}{
		{"admin reads any auth route", []string{"admin"}, "GET", "/auth/me", http.StatusOK},
		{"admin validates session", []string{"admin"}, "GET", "/auth/validate-session", http.StatusOK},
		{"admin logs out", []string{"admin"}, "POST", "/auth/logout", http.StatusOK},
		{"admin manages 2fa", []string{"admin"}, "POST", "/2fa/setup", http.StatusOK},
		{"user reads own profile", []string{"user"}, "GET", "/auth/me", http.StatusOK},
		{"user sets up 2fa", []string{"user"}, "POST", "/2fa/setup", http.StatusOK},
		{"unknown role is denied", []string{"guest"}, "GET", "/auth/me", http.StatusForbidden},
		{"any allowed role passes", []string{"guest", "user"}, "GET", "/auth/me", http.StatusOK},
		{"no roles in context", nil, "GET", "/auth/me", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewCasbinMW(createTestEnforcer(t))

			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.roles != nil {
					c.Set(CtxRoles, tt.roles)
				}
			})
			handler := func(c *gin.Context) { c.Status(http.StatusOK) }
			router.GET("/auth/me", mw.Enforce(), handler)
			router.GET("/auth/validate-session", mw.Enforce(), handler)
			router.POST("/auth/logout", mw.Enforce(), handler)
			router.POST("/2fa/setup", mw.Enforce(), handler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
