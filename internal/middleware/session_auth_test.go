package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionSecret = "shpss_session_secret"

func signSessionToken(t *testing.T, dest string, expiresAt time.Time) string {
	t.Helper()
	claims := &SessionClaims{
		Dest: dest,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(sessionSecret))
	if err != nil {
		t.Fatalf("签发测试令牌失败: %v", err)
	}
	return token
}

func TestParseSessionToken(t *testing.T) {
	SetSessionConfig(&SessionConfig{Secret: sessionSecret})

	token := signSessionToken(t, "https://demo-shop.myshopify.com", time.Now().Add(time.Minute))
	claims, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if got := ShopFromClaims(claims); got != "demo-shop.myshopify.com" {
		t.Errorf("店铺域名提取不对: %q", got)
	}

	// 过期令牌
	expired := signSessionToken(t, "https://demo-shop.myshopify.com", time.Now().Add(-time.Minute))
	if _, err := ParseSessionToken(expired); err == nil {
		t.Error("过期令牌应被拒绝")
	}

	// 错误密钥签出来的令牌
	SetSessionConfig(&SessionConfig{Secret: "another_secret"})
	if _, err := ParseSessionToken(token); err == nil {
		t.Error("签名不匹配的令牌应被拒绝")
	}
}

func TestSessionAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetSessionConfig(&SessionConfig{Secret: sessionSecret})

	r := gin.New()
	r.GET("/api/account", SessionAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, GetShop(c))
	})

	// 正常令牌：店铺域名注入 Context
	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer "+signSessionToken(t, "https://demo-shop.myshopify.com/", time.Now().Add(time.Minute)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "demo-shop.myshopify.com" {
		t.Errorf("认证应放行并注入店铺, got %d %q", w.Code, w.Body.String())
	}

	// 缺认证头
	req = httptest.NewRequest(http.MethodGet, "/api/account", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("缺认证头应 401, got %d", w.Code)
	}

	// 非 Bearer 格式
	req = httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非 Bearer 格式应 401, got %d", w.Code)
	}
}
