package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// 产品 GID 前缀，Shopify 全局 ID 的标准形式
const ProductGIDPrefix = "gid://shopify/Product/"

var (
	unsafeChars  = regexp.MustCompile(`[:/\\*?"<>|]`)
	whitespace   = regexp.MustCompile(`\s+`)
	numericOnly  = regexp.MustCompile(`^\d+$`)
	schemePrefix = regexp.MustCompile(`^https?://`)
)

// SanitizeFileName 把任意标识符映射为文件系统安全的名字
// 同一输入永远得到同一输出，保证文件名可回溯
func SanitizeFileName(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	return whitespace.ReplaceAllString(s, "_")
}

// NormalizeShopDomain 规范化店铺域名：去掉协议头和末尾斜杠，统一小写
func NormalizeShopDomain(domain string) string {
	if domain == "" {
		return domain
	}
	domain = schemePrefix.ReplaceAllString(domain, "")
	domain = strings.TrimRight(domain, "/")
	return strings.ToLower(domain)
}

// NormalizeProductGID 把商品 ID 规范化为 gid://shopify/Product/<数字> 形式
// 纯数字会被补全前缀，其他非规范形式直接拒绝
func NormalizeProductGID(productID string) (string, error) {
	if strings.HasPrefix(productID, ProductGIDPrefix) {
		return productID, nil
	}
	if !numericOnly.MatchString(productID) {
		return "", fmt.Errorf("invalid productId format: %s", productID)
	}
	return ProductGIDPrefix + productID, nil
}
