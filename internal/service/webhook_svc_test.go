package service

import (
	"context"
	"testing"
	"time"

	"threed_viewer_v1_202601/internal/model"
)

func TestWebhookRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := []byte(`{"shop_domain":"` + testShop + `"}`)
	if err := env.webhooks.Record(ctx, "https://"+testShop+"/", "customers/redact", payload); err != nil {
		t.Fatalf("留痕失败: %v", err)
	}

	var entry model.WebhookLog
	if err := env.db.First(&entry).Error; err != nil {
		t.Fatalf("读回日志失败: %v", err)
	}
	// 店铺域名落库前规范化
	if entry.Shop != testShop || entry.Topic != "customers/redact" {
		t.Errorf("日志字段不对: %+v", entry)
	}
	if string(entry.Payload) != string(payload) {
		t.Errorf("载荷应原样保存: %s", entry.Payload)
	}
}

func TestWebhookSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	if _, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t)); err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}

	snapshot, err := env.webhooks.Snapshot(ctx, testShop)
	if err != nil {
		t.Fatalf("生成快照失败: %v", err)
	}
	if snapshot.Account == nil || snapshot.Account.Shop != testShop {
		t.Errorf("快照应含账号: %+v", snapshot.Account)
	}
	if snapshot.Settings != nil {
		t.Error("未保存过配置时快照配置应为 nil")
	}
	if len(snapshot.Models) != 1 {
		t.Errorf("快照应含 1 条模型记录, got %d", len(snapshot.Models))
	}
}

func TestWebhookTouchAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com")
	if err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}

	// 把 updated_at 拨回过去，刷新后应该前进
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := env.db.Model(&model.Account{}).Where("shop = ?", testShop).
		Update("updated_at", past).Error; err != nil {
		t.Fatalf("预置时间戳失败: %v", err)
	}

	if err := env.webhooks.TouchAccount(ctx, "https://"+testShop+"/"); err != nil {
		t.Fatalf("刷新时间戳失败: %v", err)
	}

	var got model.Account
	if err := env.db.Where("shop = ?", testShop).First(&got).Error; err != nil {
		t.Fatalf("读回账号失败: %v", err)
	}
	if !got.UpdatedAt.After(past) {
		t.Errorf("updated_at 应被刷新: %v", got.UpdatedAt)
	}
	// 只动时间戳，别的字段原样
	if got.SerialKey != account.SerialKey || got.Username != account.Username {
		t.Errorf("其余字段不应改变: %+v", got)
	}
}

func TestWebhookTouchAccount_NoAccount(t *testing.T) {
	env := newTestEnv(t)

	if err := env.webhooks.TouchAccount(context.Background(), testShop); err != nil {
		t.Errorf("无账号时应为空操作: %v", err)
	}
}

func TestWebhookRedact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	if _, err := env.settings.Save(ctx, testShop, SettingsInput{Status: "enable"}); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	record, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t))
	if err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}

	if err := env.webhooks.Redact(ctx, testShop); err != nil {
		t.Fatalf("清理失败: %v", err)
	}

	if account, _ := env.account.GetByShop(ctx, testShop); account != nil {
		t.Error("账号应已清理")
	}
	if settings, _ := env.settings.GetByShop(ctx, testShop); settings != nil {
		t.Error("配置应已清理")
	}
	if records, _ := env.models.ListByShop(ctx, testShop); len(records) != 0 {
		t.Error("模型记录应已清理")
	}
	if exists, _ := env.store.Exists(ctx, AssetName(*record.ZipFile)); exists {
		t.Error("资产文件应已清理")
	}
}

func TestWebhookRedact_NoAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 和删号不同：平台可能对从未建号的店铺发 redact，这里不要求账号存在
	if err := env.webhooks.Redact(ctx, testShop); err != nil {
		t.Errorf("无账号的店铺清理不应报错: %v", err)
	}
}
