package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"threed_viewer_v1_202601/pkg/utils"
)

// ==================== 会话配置 ====================

// SessionConfig 会话令牌配置
type SessionConfig struct {
	Secret string // Shopify App Secret，用于校验会话令牌签名
}

// 全局配置
var sessionConfig = &SessionConfig{}

// SetSessionConfig 设置会话配置
func SetSessionConfig(cfg *SessionConfig) {
	sessionConfig = cfg
}

// ==================== Claims 定义 ====================

// SessionClaims Shopify 会话令牌声明
// dest 字段形如 https://{shop}.myshopify.com
type SessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// ==================== Token 解析 ====================

// ParseSessionToken 解析会话令牌并提取店铺域名
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(sessionConfig.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ShopFromClaims 从 dest 声明提取规范化店铺域名
func ShopFromClaims(claims *SessionClaims) string {
	dest := strings.TrimPrefix(claims.Dest, "https://")
	dest = strings.TrimSuffix(dest, "/")
	return utils.NormalizeShopDomain(dest)
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyShop = "shop"
)

// SessionAuth 嵌入式应用会话认证中间件
// 校验 Authorization Bearer 会话令牌，注入店铺域名到 Context
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取 Authorization Header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未提供认证信息",
			})
			c.Abort()
			return
		}

		// 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "认证格式错误，应为 Bearer {token}",
			})
			c.Abort()
			return
		}

		// 解析会话令牌
		claims, err := ParseSessionToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "会话令牌无效或已过期",
			})
			c.Abort()
			return
		}

		shop := ShopFromClaims(claims)
		if shop == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "会话令牌缺少店铺信息",
			})
			c.Abort()
			return
		}

		// 注入店铺域名到 Context
		c.Set(ContextKeyShop, shop)

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetShop 从 Context 获取店铺域名
func GetShop(c *gin.Context) string {
	if shop, exists := c.Get(ContextKeyShop); exists {
		return shop.(string)
	}
	return ""
}
