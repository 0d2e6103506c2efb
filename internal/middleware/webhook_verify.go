package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ==================== Webhook 签名校验 ====================

// VerifyWebhookHMAC 校验 Shopify Webhook 签名
// 签名为请求体的 HMAC-SHA256 摘要（base64 编码），随 X-Shopify-Hmac-Sha256 头下发
func VerifyWebhookHMAC(body []byte, hmacHeader, secret string) bool {
	if hmacHeader == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := base64.StdEncoding.DecodeString(hmacHeader)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, got)
}

// WebhookAuth Webhook 认证中间件
// 读取并缓存请求体供后续 handler 使用
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "读取请求体失败",
			})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hmacHeader := c.GetHeader("X-Shopify-Hmac-Sha256")
		if !VerifyWebhookHMAC(body, hmacHeader, secret) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Webhook 签名校验失败",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
