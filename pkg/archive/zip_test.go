package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// ==================== 测试辅助 ====================

// buildZip 按给定顺序写一个内存压缩包
func buildZip(t *testing.T, entries map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("写压缩包条目失败: %v", err)
		}
		if _, err := f.Write([]byte(entries[name])); err != nil {
			t.Fatalf("写压缩包内容失败: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("关闭压缩包失败: %v", err)
	}
	return buf.Bytes()
}

// ==================== 单元测试 ====================

func TestListEntries_KeepsArchiveOrder(t *testing.T) {
	data := buildZip(t, map[string]string{
		"textures/wood.png": "png",
		"model/scene.gltf":  "gltf",
		"readme.txt":        "txt",
	}, []string{"textures/wood.png", "model/scene.gltf", "readme.txt"})

	entries, err := ListEntries(data)
	if err != nil {
		t.Fatalf("ListEntries 失败: %v", err)
	}
	want := []string{"textures/wood.png", "model/scene.gltf", "readme.txt"}
	if len(entries) != len(want) {
		t.Fatalf("条目数量不对: got %d, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i] != name {
			t.Errorf("条目顺序不对: entries[%d] = %q, want %q", i, entries[i], name)
		}
	}
}

func TestListEntries_InvalidArchive(t *testing.T) {
	if _, err := ListEntries([]byte("not a zip")); err == nil {
		t.Fatal("损坏的压缩包应该报错")
	}
}

func TestIsModelEntry(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"scene.gltf", true},
		{"SCENE.GLTF", true},
		{"shoe.glb", true},
		{"Shoe.GLB", true},
		{"texture.png", false},
		{"gltf.txt", false},
		{"model.gltf.bak", false},
	}
	for _, tt := range tests {
		if got := IsModelEntry(tt.name); got != tt.want {
			t.Errorf("IsModelEntry(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindModelEntry_FirstByArchiveOrder(t *testing.T) {
	// 字典序上 a.glb 在前，但压缩包顺序里 z.gltf 在前，应选 z.gltf
	data := buildZip(t, map[string]string{
		"z.gltf":      "first",
		"a.glb":       "second",
		"texture.png": "png",
	}, []string{"texture.png", "z.gltf", "a.glb"})

	entries, err := ListEntries(data)
	if err != nil {
		t.Fatalf("ListEntries 失败: %v", err)
	}

	entry, found := FindModelEntry(entries)
	if !found {
		t.Fatal("应该找到模型条目")
	}
	if entry != "z.gltf" {
		t.Errorf("首个模型条目应按压缩包顺序: got %q, want z.gltf", entry)
	}
}

func TestHasModelEntry(t *testing.T) {
	if HasModelEntry([]string{"a.png", "b.txt"}) {
		t.Error("没有模型条目时应返回 false")
	}
	if !HasModelEntry([]string{"a.png", "scene.glb"}) {
		t.Error("存在模型条目时应返回 true")
	}
	if HasModelEntry(nil) {
		t.Error("空清单应返回 false")
	}
}

func TestExtractEntry_PathTraversal(t *testing.T) {
	// 恶意条目不能逃出目标目录
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("../../evil.txt")
	f.Write([]byte("evil"))
	w.Close()

	parent := t.TempDir()
	dest := filepath.Join(parent, "dest")
	os.MkdirAll(dest, 0o755)

	p, err := ExtractEntry(buf.Bytes(), "../../evil.txt", dest)
	if err != nil {
		t.Fatalf("ExtractEntry 失败: %v", err)
	}

	if _, err := os.Stat(filepath.Join(parent, "evil.txt")); err == nil {
		t.Fatal("条目逃出了目标目录")
	}
	if p != filepath.Join(dest, "evil.txt") {
		t.Fatalf("条目应被裁剪进目标目录: %s", p)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatal("裁剪后的文件应已落盘")
	}
}

func TestExtractEntry(t *testing.T) {
	data := buildZip(t, map[string]string{
		"model/scene.gltf": "gltf-content",
		"texture.png":      "png",
	}, []string{"texture.png", "model/scene.gltf"})

	dir := t.TempDir()
	p, err := ExtractEntry(data, "model/scene.gltf", dir)
	if err != nil {
		t.Fatalf("ExtractEntry 失败: %v", err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if string(got) != "gltf-content" {
		t.Errorf("内容不对: %q", got)
	}

	if _, err := ExtractEntry(data, "missing.glb", dir); err == nil {
		t.Error("不存在的条目应报错")
	}
}
