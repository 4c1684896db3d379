package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"socialchat/internal/metrics"
	"socialchat/internal/models"
	"socialchat/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func issue(t *testing.T, issuer *services.TokenIssuer, roles ...string) string {
	t.Helper()
	u := &models.User{ID: 7, Username: "neo"}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.Role{Name: r})
	}
	tok, _, err := issuer.Issue(u, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

// issuerParser adapts *services.TokenIssuer to TokenParser.
type issuerParser struct{ *services.TokenIssuer }

func (p issuerParser) ParseAccessToken(token string) (*services.Claims, error) {
	return p.Parse(token)
}

func newRouter(issuer *services.TokenIssuer, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(issuerParser{issuer})}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet(CtxUserID), "username": c.MustGet(CtxUsername)})
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	issuer := services.NewTokenIssuer("secret", time.Minute)
	valid := issue(t, issuer, "user")
	r := newRouter(issuer)

	tests := []struct {
		name    string
		header  string
		query   string
		upgrade bool
		want    int
	}{
		{"no token", "", "", false, http.StatusUnauthorized},
		{"bearer", "Bearer " + valid, "", false, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, "", false, http.StatusOK},
		{"basic scheme", "Basic abc", "", false, http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", false, http.StatusUnauthorized},
		{"query token on websocket upgrade", "", valid, true, http.StatusOK},
		{"query token on plain request", "", valid, false, http.StatusUnauthorized},
		{"foreign signature", "Bearer " + issue(t, services.NewTokenIssuer("other", time.Minute)), "", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/me"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	issuer := services.NewTokenIssuer("secret", time.Minute)
	r := newRouter(issuer, RequireRoles(models.RoleAdmin))

	for _, tc := range []struct {
		roles []string
		want  int
	}{
		{[]string{"user"}, http.StatusForbidden},
		{[]string{"user", "admin"}, http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, issuer, tc.roles...))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("roles %v: status = %d, want %d", tc.roles, w.Code, tc.want)
		}
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(), RequestLogger(zap.NewNop()))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/items/:id", "204"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/items/:id", "204"))
	if after-before != 2 {
		t.Errorf("counter grew by %v, want 2", after-before)
	}
}
