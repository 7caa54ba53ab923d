package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hgalarze/mcfood-backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-test-secret"

// probeRouter 挂一个受保护的探针接口，把 context 里的身份回显出来
func probeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", TokenMiddleware(testSecret), func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no claims"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"userId":    claims.UserID,
			"userEmail": claims.UserEmail,
		})
	})
	return r
}

// TestTokenMiddleware_MissingToken 没带 token 返回 400
func TestTokenMiddleware_MissingToken(t *testing.T) {
	r := probeRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestTokenMiddleware_InvalidToken 带了不合法 token 返回 400
func TestTokenMiddleware_InvalidToken(t *testing.T) {
	r := probeRouter()

	testCases := []string{"Bearer garbage", "Bearer a.b.c", "Bearer "}
	for _, header := range testCases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Authorization=%q status = %d, want %d", header, w.Code, http.StatusBadRequest)
		}
	}
}

// TestTokenMiddleware_BearerHeader 合法 token 放 header 能通过，
// 并且 handler 能拿到解码后的身份
func TestTokenMiddleware_BearerHeader(t *testing.T) {
	r := probeRouter()

	token, err := util.GenerateToken(testSecret, "u1", "a@b.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["userId"] != "u1" || body["userEmail"] != "a@b.com" {
		t.Errorf("claims = %v, want u1 / a@b.com", body)
	}
}

// TestTokenMiddleware_Cookie 合法 token 放 cookie 也能通过
func TestTokenMiddleware_Cookie(t *testing.T) {
	r := probeRouter()

	token, _ := util.GenerateToken(testSecret, "u2", "c@d.com", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestTokenMiddleware_CookiePrecedence cookie 和 header 同时存在时以 cookie 为准：
// cookie 是坏的就直接拒绝，不会退回去看 header
func TestTokenMiddleware_CookiePrecedence(t *testing.T) {
	r := probeRouter()

	token, _ := util.GenerateToken(testSecret, "u3", "e@f.com", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "broken-token"})
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d (cookie wins)", w.Code, http.StatusBadRequest)
	}
}
