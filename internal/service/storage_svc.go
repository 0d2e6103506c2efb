package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"threed_viewer_v1_202601/internal/config"
	"threed_viewer_v1_202601/pkg/utils"
)

// 公开资产路径前缀，数据库里存的 zip_file 都以它开头
const PublicPrefix = "/public/"

// ==================== 接口定义 ====================

// AssetStore 资产存储接口
// name 是公开目录下的文件名；返回的公开路径形如 /public/<name>
type AssetStore interface {
	// Save 写入资产，返回公开路径
	Save(ctx context.Context, name string, data []byte) (string, error)

	// Open 读出资产内容（CSV 导入要回读之前上传的压缩包）
	Open(ctx context.Context, name string) ([]byte, error)

	// Exists 目标文件名是否已被占用
	Exists(ctx context.Context, name string) (bool, error)

	// Delete 按公开路径删除资产
	Delete(ctx context.Context, publicPath string) error

	// List 公开目录下全部文件名及其修改时间
	List(ctx context.Context) (map[string]time.Time, error)
}

// ==================== 工厂方法 ====================

func NewAssetStore(cfg *config.StorageConfig) (AssetStore, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3AssetStore(cfg)
	case "local":
		return NewLocalAssetStore(cfg.PublicDir)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== 文件名 ====================

// UniqueAssetName 生成模型资产的唯一文件名
// 形如 <毫秒时间戳>-<净化后的商品ID>-<原始文件名>，并发上传不同商品不会撞名，且可人工回溯
func UniqueAssetName(productID, baseName string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), utils.SanitizeFileName(productID), baseName)
}

// NewTempDir 为一次解压操作创建独立临时目录
// 时间戳 + uuid 片段，同一毫秒内的两次导入也不会互踩
func NewTempDir(root string) (string, error) {
	dir := filepath.Join(root, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建临时目录失败: %w", err)
	}
	return dir, nil
}

// AssetName 从公开路径取回文件名
func AssetName(publicPath string) string {
	return strings.TrimPrefix(publicPath, PublicPrefix)
}

// ==================== 本地实现 ====================

type LocalAssetStore struct {
	dir string
}

func NewLocalAssetStore(dir string) (*LocalAssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建公开目录失败: %w", err)
	}
	return &LocalAssetStore{dir: dir}, nil
}

func (s *LocalAssetStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("写入资产失败 %s: %w", name, err)
	}
	return PublicPrefix + name, nil
}

func (s *LocalAssetStore) Open(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, name))
}

func (s *LocalAssetStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *LocalAssetStore) Delete(ctx context.Context, publicPath string) error {
	return os.Remove(filepath.Join(s.dir, AssetName(publicPath)))
}

func (s *LocalAssetStore) List(ctx context.Context) (map[string]time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files[e.Name()] = info.ModTime()
	}
	return files, nil
}

// ==================== S3 实现 ====================

type S3AssetStore struct {
	client   *s3.Client
	bucket   string
	basePath string
}

func NewS3AssetStore(cfg *config.StorageConfig) (*S3AssetStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3AssetStore{
		client:   client,
		bucket:   cfg.Bucket,
		basePath: "public",
	}, nil
}

func (s *S3AssetStore) key(name string) string {
	return s.basePath + "/" + name
}

func (s *S3AssetStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("上传S3失败: %v", err)
	}
	return PublicPrefix + name, nil
}

func (s *S3AssetStore) Open(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3AssetStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *S3AssetStore) Delete(ctx context.Context, publicPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(AssetName(publicPath))),
	})
	return err
}

func (s *S3AssetStore) List(ctx context.Context) (map[string]time.Time, error) {
	files := make(map[string]time.Time)
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.basePath + "/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.basePath+"/")
			if name == "" {
				continue
			}
			files[name] = aws.ToTime(obj.LastModified)
		}
		if out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	return files, nil
}
