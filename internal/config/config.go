package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Storage     StorageConfig
	Shopify     ShopifyConfig
	Session     SessionConfig
	Tasks       TasksConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StorageConfig 资产存储配置
// Provider: "local" | "s3"
type StorageConfig struct {
	Provider  string
	PublicDir string // local: 公开资产目录
	TempDir   string // 解压用临时目录根
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	CDNDomain string
}

// ShopifyConfig Admin GraphQL 访问配置
type ShopifyConfig struct {
	APIVersion    string
	AccessToken   string
	WebhookSecret string // 校验 X-Shopify-Hmac-Sha256
}

// SessionConfig 嵌入式应用会话令牌配置
type SessionConfig struct {
	Secret string // App 的 client secret，会话 JWT 用它签名
}

// TasksConfig 后台维护任务
type TasksConfig struct {
	Enabled          bool
	TempSweepSpec    string // cron 表达式
	OrphanSweepSpec  string
	OrphanSweepDry   bool
	TempMaxAgeHours  int
	AssetMaxAgeHours int
}

// Load 读取 .env 风格配置，环境变量优先
func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 没有 .env 文件不算错，全部走环境变量
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(".env"); statErr == nil {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "viewer_admin")
	viper.SetDefault("DB_NAME", "threed_viewer")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("STORAGE_PUBLIC_DIR", "public")
	viper.SetDefault("STORAGE_TEMP_DIR", "temp")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	viper.SetDefault("TASKS_ENABLED", true)
	viper.SetDefault("TASKS_TEMP_SWEEP_SPEC", "@every 1h")
	viper.SetDefault("TASKS_ORPHAN_SWEEP_SPEC", "@daily")
	viper.SetDefault("TASKS_ORPHAN_SWEEP_DRY", true)
	viper.SetDefault("TASKS_TEMP_MAX_AGE_HOURS", 1)
	viper.SetDefault("TASKS_ASSET_MAX_AGE_HOURS", 24)

	cfg := &Config{
		Port:        viper.GetString("PORT"),
		Environment: viper.GetString("ENVIRONMENT"),
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Storage: StorageConfig{
			Provider:  viper.GetString("STORAGE_PROVIDER"),
			PublicDir: viper.GetString("STORAGE_PUBLIC_DIR"),
			TempDir:   viper.GetString("STORAGE_TEMP_DIR"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			CDNDomain: viper.GetString("STORAGE_CDN_DOMAIN"),
		},
		Shopify: ShopifyConfig{
			APIVersion:    viper.GetString("SHOPIFY_API_VERSION"),
			AccessToken:   viper.GetString("SHOPIFY_ACCESS_TOKEN"),
			WebhookSecret: viper.GetString("SHOPIFY_WEBHOOK_SECRET"),
		},
		Session: SessionConfig{
			Secret: viper.GetString("SHOPIFY_API_SECRET"),
		},
		Tasks: TasksConfig{
			Enabled:          viper.GetBool("TASKS_ENABLED"),
			TempSweepSpec:    viper.GetString("TASKS_TEMP_SWEEP_SPEC"),
			OrphanSweepSpec:  viper.GetString("TASKS_ORPHAN_SWEEP_SPEC"),
			OrphanSweepDry:   viper.GetBool("TASKS_ORPHAN_SWEEP_DRY"),
			TempMaxAgeHours:  viper.GetInt("TASKS_TEMP_MAX_AGE_HOURS"),
			AssetMaxAgeHours: viper.GetInt("TASKS_ASSET_MAX_AGE_HOURS"),
		},
	}

	return cfg, nil
}

// DSN 拼接 Postgres 连接串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}
