package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"socialchat/internal/authz"
	"socialchat/internal/repositories"
	"socialchat/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", services.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: creds", services.ErrUnauthorized), http.StatusUnauthorized},
		{authz.ErrNotGroupAdmin, http.StatusForbidden},
		{services.ErrNotChatMember, http.StatusForbidden},
		{fmt.Errorf("receiver: %w", repositories.ErrNotFound), http.StatusNotFound},
		{repositories.ErrAlreadyExists, http.StatusConflict},
		{fmt.Errorf("%w: last admin", services.ErrConflict), http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParamID(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	for path, want := range map[string]int{"/x/12": 200, "/x/0": 400, "/x/-1": 400, "/x/abc": 400} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("%s = %d, want %d", path, w.Code, want)
		}
	}
}

func TestUsernameValidator(t *testing.T) {
	RegisterValidators()
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	for body, want := range map[string]int{
		`{"username":"neo_1","email":"n@example.com","password":"secret1"}`: http.StatusNoContent,
		`{"username":"n","email":"n@example.com","password":"secret1"}`:     http.StatusBadRequest,
		`{"username":"ne o","email":"n@example.com","password":"secret1"}`:  http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s = %d, want %d", body, w.Code, want)
		}
	}
}
