package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ==================== ZIP 检查 ====================

// ListEntries 列出压缩包的全部条目名，保持压缩包内部顺序
// 只读目录，不做解压
func ListEntries(data []byte) ([]string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("读取压缩包失败: %w", err)
	}
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// IsModelEntry 判断条目是否为 3D 模型文件（.gltf / .glb，大小写不敏感）
func IsModelEntry(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".gltf") || strings.HasSuffix(lower, ".glb")
}

// HasModelEntry 压缩包内是否存在至少一个模型文件
func HasModelEntry(entries []string) bool {
	for _, name := range entries {
		if IsModelEntry(name) {
			return true
		}
	}
	return false
}

// FindModelEntry 返回压缩包内第一个模型条目
// 顺序以压缩包内部条目顺序为准，而不是排序后的顺序
func FindModelEntry(entries []string) (string, bool) {
	for _, name := range entries {
		if IsModelEntry(name) {
			return name, true
		}
	}
	return "", false
}

// ==================== 解压 ====================

// ExtractEntry 解压单个条目到 destDir，返回落盘后的绝对路径
// 条目路径会被裁剪到 destDir 之内，防止路径穿越
func ExtractEntry(data []byte, entryName string, destDir string) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("读取压缩包失败: %w", err)
	}
	for _, f := range r.File {
		if f.Name != entryName {
			continue
		}
		target := filepath.Join(destDir, filepath.Clean("/"+f.Name))
		if err := extractFile(f, target); err != nil {
			return "", err
		}
		return target, nil
	}
	return "", fmt.Errorf("压缩包中不存在条目: %s", entryName)
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("打开条目失败 %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("创建文件失败 %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("写出条目失败 %s: %w", f.Name, err)
	}
	return nil
}
