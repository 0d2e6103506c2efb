package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

const testShop = "demo-shop.myshopify.com"

func TestAccountCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com")
	if err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	if account.Shop != testShop || account.Username != "merchant" {
		t.Errorf("账号字段不对: %+v", account)
	}

	// 序列号: <毫秒时间戳>-<13位随机后缀>
	if !regexp.MustCompile(`^\d+-[0-9a-f]{13}$`).MatchString(account.SerialKey) {
		t.Errorf("序列号格式不对: %q", account.SerialKey)
	}
}

func TestAccountCreate_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}

	if _, err := env.account.Create(ctx, "other.myshopify.com", "merchant", "new@example.com"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("用户名撞库应返回 ErrUsernameTaken, got %v", err)
	}
	if _, err := env.account.Create(ctx, "other.myshopify.com", "someone", "merchant@example.com"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("邮箱撞库应返回 ErrEmailTaken, got %v", err)
	}
}

func TestAccountRequire(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.account.Require(ctx, testShop); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("无账号时应返回 ErrNoAccount, got %v", err)
	}

	if _, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	if _, err := env.account.Require(ctx, testShop); err != nil {
		t.Errorf("有账号时不应报错: %v", err)
	}
}

func TestAccountUpdate_SerialKeyImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com")
	if err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}

	updated, err := env.account.Update(ctx, testShop, "renamed", "renamed@example.com")
	if err != nil {
		t.Fatalf("更新账号失败: %v", err)
	}
	if updated.Username != "renamed" || updated.Email != "renamed@example.com" {
		t.Errorf("更新后字段不对: %+v", updated)
	}
	if updated.SerialKey != created.SerialKey {
		t.Errorf("序列号不可变: %q != %q", updated.SerialKey, created.SerialKey)
	}
}

func TestAccountUpdate_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	if _, err := env.account.Create(ctx, "other.myshopify.com", "someone", "someone@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}

	if _, err := env.account.Update(ctx, testShop, "someone", "merchant@example.com"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("用户名被占用应返回 ErrUsernameTaken, got %v", err)
	}
	if _, err := env.account.Update(ctx, testShop, "merchant", "someone@example.com"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("邮箱被占用应返回 ErrEmailTaken, got %v", err)
	}

	// 没改动的字段不触发撞库检查
	if _, err := env.account.Update(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Errorf("原值更新不应报错: %v", err)
	}
}

func TestAccountDelete_Cascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.account.Create(ctx, testShop, "merchant", "merchant@example.com"); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	if _, err := env.settings.Save(ctx, testShop, SettingsInput{Status: "enable"}); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	record, err := env.models.Upload(ctx, testShop, "gid://shopify/Product/1", "Shoe", "shoe.zip", modelZip(t))
	if err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}

	if err := env.account.Delete(ctx, testShop); err != nil {
		t.Fatalf("删除账号失败: %v", err)
	}

	if account, _ := env.account.GetByShop(ctx, testShop); account != nil {
		t.Error("账号应已删除")
	}
	if settings, _ := env.settings.GetByShop(ctx, testShop); settings != nil {
		t.Error("配置应已删除")
	}
	if records, _ := env.models.ListByShop(ctx, testShop); len(records) != 0 {
		t.Errorf("模型记录应已删除, got %d", len(records))
	}

	// 资产文件同步清掉
	exists, err := env.store.Exists(ctx, AssetName(*record.ZipFile))
	if err != nil {
		t.Fatalf("检查资产失败: %v", err)
	}
	if exists {
		t.Error("资产文件应已删除")
	}

	if err := env.account.Delete(ctx, testShop); !errors.Is(err, ErrNoAccount) {
		t.Errorf("重复删除应返回 ErrNoAccount, got %v", err)
	}
}
