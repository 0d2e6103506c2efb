package viewer

import (
	"strings"
	"testing"
)

func TestRenderError(t *testing.T) {
	html := RenderError("Shop and productId parameters are required")
	if !strings.Contains(html, "<h1>Error</h1>") {
		t.Error("错误页缺少标题")
	}
	if !strings.Contains(html, "Shop and productId parameters are required") {
		t.Error("错误页缺少错误信息")
	}
}

func TestRenderDisabled(t *testing.T) {
	html := RenderDisabled()
	if !strings.Contains(html, "3D Model Viewer Disabled") {
		t.Error("停用页缺少标题")
	}
	if !strings.Contains(html, "The 3D viewer is currently disabled in the settings.") {
		t.Error("停用页缺少提示文案")
	}
}

func TestRenderNoModel(t *testing.T) {
	html := RenderNoModel()
	if !strings.Contains(html, "No 3D Model Found") {
		t.Error("无模型页缺少标题")
	}
	if !strings.Contains(html, "No 3D model is available for this product.") {
		t.Error("无模型页缺少提示文案")
	}
}

func TestRenderViewer_EmbedsModel(t *testing.T) {
	html := RenderViewer(PageModel{
		ModelName: "Sample Shoe",
		ModelPath: "/apps/threed/1700000000-123-shoe.glb",
		Feature:   FeatureAutoRotate,
	})

	if !strings.Contains(html, `src="/apps/threed/1700000000-123-shoe.glb"`) {
		t.Error("页面缺少模型资产路径")
	}
	if !strings.Contains(html, `alt="Sample Shoe"`) {
		t.Error("页面缺少模型名")
	}
	if !strings.Contains(html, "model-viewer") {
		t.Error("页面缺少 model-viewer 元素")
	}
	// 每个实例一份状态对象
	if !strings.Contains(html, "const state = { interacting: false, frameHandle: null, resumeTimeout: null }") {
		t.Error("页面缺少实例级状态对象")
	}
}

func TestRenderViewer_FeatureScripts(t *testing.T) {
	tests := []struct {
		feature Feature
		marker  string
	}{
		{FeatureAutoRotate, "rotation-per-second"},
		{FeatureAutoZoomRotate, "requestAnimationFrame(animateCamera)"},
		{FeatureScrollRotate, "window.addEventListener('scroll'"},
		{FeatureManualControls, "updateFraming()"},
		{FeatureMaterialControls, "setMetallicFactor"},
		{FeatureNormal, "const suspendFeature = () => {};"},
	}

	for _, tt := range tests {
		t.Run(string(tt.feature), func(t *testing.T) {
			html := RenderViewer(PageModel{ModelName: "m", ModelPath: "/apps/threed/m.glb", Feature: tt.feature})
			if !strings.Contains(html, tt.marker) {
				t.Errorf("模式 %q 的页面缺少脚本片段 %q", tt.feature, tt.marker)
			}
		})
	}
}

func TestRenderViewer_UnknownFeatureFallsBack(t *testing.T) {
	html := RenderViewer(PageModel{ModelName: "m", ModelPath: "/apps/threed/m.glb", Feature: Feature("Bogus Mode")})
	// 未知模式回落 Normal：没有任何自动运动脚本
	if strings.Contains(html, "animateCamera") || strings.Contains(html, "auto-rotate-delay") {
		t.Error("未知模式不应渲染自动运动脚本")
	}
	if !strings.Contains(html, "const suspendFeature = () => {};") {
		t.Error("未知模式应渲染 Normal 片段")
	}
}

func TestRenderViewer_ScrollModeCleansUpListener(t *testing.T) {
	html := RenderViewer(PageModel{ModelName: "m", ModelPath: "/apps/threed/m.glb", Feature: FeatureScrollRotate})
	if !strings.Contains(html, "viewer.addEventListener('disconnected'") {
		t.Error("滚动模式必须在 disconnected 时摘掉监听")
	}
	if !strings.Contains(html, "removeEventListener('scroll'") {
		t.Error("滚动模式缺少监听清理")
	}
}

func TestZoomKeyframesJSON(t *testing.T) {
	got := zoomKeyframesJSON()
	want := `[{"theta":45,"phi":55,"radius":150,"fov":40},{"theta":-60,"phi":110,"radius":100,"fov":50},{"theta":0,"phi":75,"radius":120,"fov":30}]`
	if got != want {
		t.Errorf("关键帧 JSON 不匹配:\n got %s\nwant %s", got, want)
	}
}

func TestModelPublicPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/public/1700-123-shoe.glb", "/apps/threed/1700-123-shoe.glb"},
		{"shoe.glb", "/apps/threed/shoe.glb"},
	}
	for _, tt := range tests {
		if got := ModelPublicPath(tt.input); got != tt.want {
			t.Errorf("ModelPublicPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
