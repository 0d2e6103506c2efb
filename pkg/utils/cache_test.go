package utils

import (
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	SetCache("products:shop-a:::", `{"products":[]}`, time.Minute)

	got, ok := GetCache("products:shop-a:::")
	if !ok || got != `{"products":[]}` {
		t.Fatalf("缓存读回不对: %q ok=%v", got, ok)
	}

	if _, ok := GetCache("products:shop-b:::"); ok {
		t.Error("未写入的键不应命中")
	}

	DeleteCache("products:shop-a:::")
	if _, ok := GetCache("products:shop-a:::"); ok {
		t.Error("删除后不应命中")
	}
}

func TestCache_Expiration(t *testing.T) {
	// 过期时间精度是秒，负 TTL 直接落在过去
	SetCache("stale-key", "value", -2*time.Second)

	if _, ok := GetCache("stale-key"); ok {
		t.Error("过期条目不应命中")
	}
}
