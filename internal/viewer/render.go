package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// 独立预览页的渲染。四种产物：错误页、停用页、无模型页、查看器页。
// 查看器页的内联脚本按模式拼装，每个模式一个片段，对应一个 Feature 变体。

// PageModel 查看器页面的数据
type PageModel struct {
	ModelName string
	ModelPath string
	Feature   Feature
}

// ==================== 简单页面 ====================

var basePageTmpl = template.Must(template.New("base").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background-color: #f4f4f4; }
    .message { color: {{.Color}}; text-align: center; }
  </style>
</head>
<body>
  <div class="message">
    <h1>{{.Heading}}</h1>
    <p>{{.Text}}</p>
  </div>
</body>
</html>
`))

type basePage struct {
	Title, Heading, Text string
	Color                template.CSS
}

func renderBase(p basePage) string {
	var buf bytes.Buffer
	// 模板固定且数据已转义，Execute 不会失败
	_ = basePageTmpl.Execute(&buf, p)
	return buf.String()
}

// RenderError 错误页
func RenderError(message string) string {
	return renderBase(basePage{Title: "Error", Heading: "Error", Text: message, Color: "red"})
}

// RenderDisabled 查看器被商户停用时的提示页
func RenderDisabled() string {
	return renderBase(basePage{
		Title:   "3D Model Disabled",
		Heading: "3D Model Viewer Disabled",
		Text:    "The 3D viewer is currently disabled in the settings.",
		Color:   "#333",
	})
}

// RenderNoModel 记录存在但还没上传模型时的提示页
func RenderNoModel() string {
	return renderBase(basePage{
		Title:   "No 3D Model",
		Heading: "No 3D Model Found",
		Text:    "No 3D model is available for this product.",
		Color:   "#333",
	})
}

// ==================== 查看器页面 ====================

var viewerPageTmpl = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Full 3D Model Preview</title>
  <script type="module" src="https://unpkg.com/@google/model-viewer@2.1.1/dist/model-viewer.min.js"></script>
  <style>
    body { margin: 0; padding: 0; min-height: 100vh; display: flex; justify-content: center; align-items: center; background-color: #f4f4f4; }
    model-viewer { width: 90vw; height: 90vh; max-height: 600px; background-color: #fff; margin: auto; --progress-bar-height: 5px; --progress-bar-color: #4CAF50; position: relative; }
    .progress-container { position: absolute; top: 0; left: 0; width: 100%; height: 5px; background-color: #e0e0e0; z-index: 20; display: none; }
    .progress-bar { width: 0%; height: 100%; background-color: #4CAF50; transition: width 0.2s ease-in-out; }
    .progress-container.visible { display: block; }
    .controls { position: absolute; bottom: 20px; left: 20px; background: rgba(255, 255, 255, 0.8); padding: 10px; border-radius: 5px; z-index: 10; pointer-events: auto; }
    .controls input, .controls button { pointer-events: auto; }
    model-viewer:focus { outline: none; }
  </style>
</head>
<body>
  <model-viewer
    id="viewer"
    alt="{{.ModelName}}"
    src="{{.ModelPath}}"
    camera-controls
    touch-action="none"
    interaction-prompt="auto"
    camera-orbit="0deg 75deg 150%"
    field-of-view="40deg"
    min-field-of-view="30deg"
    max-field-of-view="60deg"
    bounds="tight"
    enable-pan
  >
    <div class="progress-container" id="progress-container">
      <div class="progress-bar" id="progress-bar"></div>
    </div>
  </model-viewer>

  <script>
    const viewer = document.querySelector('#viewer');
    const progressContainer = document.querySelector('#progress-container');
    const progressBar = document.querySelector('#progress-bar');

    progressContainer.classList.add('visible');
    viewer.addEventListener('progress', (ev) => {
      progressBar.style.width = (ev.detail.totalProgress * 100) + '%';
    });
    viewer.addEventListener('load', () => progressContainer.classList.remove('visible'));
    viewer.addEventListener('error', (ev) => {
      console.error('Failed to load 3D model:', ev);
      progressContainer.classList.remove('visible');
    });

    // 每个实例一份状态，不挂在模块级
    const state = { interacting: false, frameHandle: null, resumeTimeout: null };

    const resumeAnimations = () => {
      if (!state.interacting) { return; }
      state.interacting = false;
      resumeFeature();
    };

    viewer.addEventListener('camera-change', (ev) => {
      if (ev.detail.source === 'user-interaction') {
        state.interacting = true;
        if (state.frameHandle) {
          cancelAnimationFrame(state.frameHandle);
          state.frameHandle = null;
        }
        suspendFeature();
        if (state.resumeTimeout) {
          clearTimeout(state.resumeTimeout);
          state.resumeTimeout = null;
        }
      }
    });
    viewer.addEventListener('pointerup', resumeAnimations);
    viewer.addEventListener('mouseup', resumeAnimations);
    viewer.addEventListener('pointerleave', resumeAnimations);
    viewer.addEventListener('pointerdown', () => {
      viewer.setAttribute('camera-controls', '');
      viewer.setAttribute('touch-action', 'none');
      if (state.resumeTimeout) { clearTimeout(state.resumeTimeout); }
      state.resumeTimeout = setTimeout(resumeAnimations, {{.ResumeDelay}});
    });

{{.FeatureScript}}
  </script>
</body>
</html>
`))

// RenderViewer 渲染完整查看器页
func RenderViewer(p PageModel) string {
	feature, _ := ParseFeature(string(p.Feature))
	data := struct {
		ModelName     string
		ModelPath     string
		ResumeDelay   int
		FeatureScript template.JS
	}{
		ModelName:     p.ModelName,
		ModelPath:     p.ModelPath,
		ResumeDelay:   int(ResumeDelayMs),
		FeatureScript: template.JS(featureScript(feature)),
	}
	var buf bytes.Buffer
	_ = viewerPageTmpl.Execute(&buf, data)
	return buf.String()
}

// featureScript 每个模式一个脚本片段（suspendFeature / resumeFeature + 初始化）
func featureScript(f Feature) string {
	switch f {
	case FeatureAutoRotate:
		return `
    const startRotate = () => {
      viewer.setAttribute('auto-rotate', '');
      viewer.setAttribute('auto-rotate-delay', '0');
      viewer.setAttribute('rotation-per-second', '30deg');
    };
    const suspendFeature = () => viewer.removeAttribute('auto-rotate');
    const resumeFeature = startRotate;
    startRotate();`

	case FeatureAutoZoomRotate:
		return fmt.Sprintf(`
    viewer.setAttribute('interpolation-decay', '100');
    viewer.setAttribute('auto-rotate', '');

    const keyframes = %s;
    const transitionDuration = %d;
    let currentIndex = 0;
    let nextIndex = 1;
    let transitionStart = null;

    function animateCamera(timestamp) {
      if (state.interacting) { state.frameHandle = null; return; }
      if (!transitionStart) { transitionStart = timestamp; }
      const progress = Math.min((timestamp - transitionStart) / transitionDuration, 1);
      const from = keyframes[currentIndex];
      const to = keyframes[nextIndex];
      const lerp = (a, b) => a + (b - a) * progress;
      viewer.setAttribute('camera-orbit',
        lerp(from.theta, to.theta) + 'deg ' + lerp(from.phi, to.phi) + 'deg ' + lerp(from.radius, to.radius) + '%%');
      viewer.setAttribute('field-of-view', lerp(from.fov, to.fov) + 'deg');
      if (progress >= 1) {
        currentIndex = nextIndex;
        nextIndex = (nextIndex + 1) %% keyframes.length;
        transitionStart = null;
      }
      state.frameHandle = requestAnimationFrame(animateCamera);
    }

    const suspendFeature = () => {};
    const resumeFeature = () => {
      // 从当前关键帧继续；启动前帧句柄必须为空，保证只有一个循环
      if (!state.frameHandle) { state.frameHandle = requestAnimationFrame(animateCamera); }
    };
    if (!state.interacting) { state.frameHandle = requestAnimationFrame(animateCamera); }`,
			zoomKeyframesJSON(), int(TransitionMillis))

	case FeatureScrollRotate:
		return `
    const scrollOrbit = () => 'calc(0deg + env(window-scroll-y) * 360deg) 75deg 120%';
    viewer.setAttribute('camera-orbit', scrollOrbit());
    const updateScrollRotation = () => {
      if (!state.interacting) { viewer.setAttribute('camera-orbit', scrollOrbit()); }
    };
    window.addEventListener('scroll', updateScrollRotation);
    // 实例被移出 DOM 后必须自行摘掉监听，否则滚动监听会泄漏
    viewer.addEventListener('disconnected', () => {
      window.removeEventListener('scroll', updateScrollRotation);
    }, { once: true });
    const suspendFeature = () => {};
    const resumeFeature = () => {};`

	case FeatureManualControls:
		return `
    viewer.setAttribute('orientation', '20deg 0deg 0deg');
    viewer.setAttribute('shadow-intensity', '1');

    const controls = document.createElement('div');
    controls.className = 'controls';
    controls.innerHTML =
      '<div><span>Roll:</span> <input id="roll" value="20" size="3"> degrees</div>' +
      '<div><span>Pitch:</span> <input id="pitch" value="0" size="3"> degrees</div>' +
      '<div><span>Yaw:</span> <input id="yaw" value="0" size="3"> degrees</div>' +
      '<button id="frame">Update Framing</button>';
    document.body.appendChild(controls);

    const roll = document.querySelector('#roll');
    const pitch = document.querySelector('#pitch');
    const yaw = document.querySelector('#yaw');
    const updateOrientation = () => {
      viewer.setAttribute('orientation', roll.value + 'deg ' + pitch.value + 'deg ' + yaw.value + 'deg');
    };
    roll.addEventListener('input', updateOrientation);
    pitch.addEventListener('input', updateOrientation);
    yaw.addEventListener('input', updateOrientation);
    document.querySelector('#frame').addEventListener('click', () => viewer.updateFraming());
    const suspendFeature = () => {};
    const resumeFeature = () => {};`

	case FeatureMaterialControls:
		return `
    viewer.setAttribute('shadow-intensity', '1');
    viewer.setAttribute('environment-image', 'neutral');

    const controls = document.createElement('div');
    controls.className = 'controls';
    controls.innerHTML =
      '<div><label for="metalness">Metalness: <span id="metalness-value">1.0</span></label>' +
      ' <input id="metalness" type="range" min="0" max="1" step="0.01" value="1"></div>' +
      '<div><label for="roughness">Roughness: <span id="roughness-value">0.0</span></label>' +
      ' <input id="roughness" type="range" min="0" max="1" step="0.01" value="0"></div>';
    document.body.appendChild(controls);

    // 材质要等 load 事件之后才拿得到
    viewer.addEventListener('load', () => {
      const materials = viewer.model && viewer.model.materials;
      if (!materials || materials.length === 0) {
        console.warn('No materials found; hiding controls');
        controls.style.display = 'none';
        return;
      }
      const material = materials[0];
      const metalnessValue = document.querySelector('#metalness-value');
      const roughnessValue = document.querySelector('#roughness-value');
      metalnessValue.textContent = material.pbrMetallicRoughness.metallicFactor.toFixed(2);
      roughnessValue.textContent = material.pbrMetallicRoughness.roughnessFactor.toFixed(2);
      document.querySelector('#metalness').addEventListener('input', (ev) => {
        const v = parseFloat(ev.target.value);
        material.pbrMetallicRoughness.setMetallicFactor(v);
        metalnessValue.textContent = v.toFixed(2);
      });
      document.querySelector('#roughness').addEventListener('input', (ev) => {
        const v = parseFloat(ev.target.value);
        material.pbrMetallicRoughness.setRoughnessFactor(v);
        roughnessValue.textContent = v.toFixed(2);
      });
    });
    const suspendFeature = () => {};
    const resumeFeature = () => {};`

	default:
		// Normal：相机控制可用，没有自动运动
		return `
    const suspendFeature = () => {};
    const resumeFeature = () => {};`
	}
}

func zoomKeyframesJSON() string {
	type kf struct {
		Theta  float64 `json:"theta"`
		Phi    float64 `json:"phi"`
		Radius float64 `json:"radius"`
		FOV    float64 `json:"fov"`
	}
	frames := make([]kf, 0, len(ZoomKeyframes))
	for _, k := range ZoomKeyframes {
		frames = append(frames, kf{k.Theta, k.Phi, k.Radius, k.FOV})
	}
	data, _ := json.Marshal(frames)
	return string(data)
}

// ModelPublicPath 存储路径到店面代理路径的映射
// /public/<file> 在店面以 /apps/threed/<file> 暴露
func ModelPublicPath(zipFile string) string {
	parts := strings.Split(zipFile, "/")
	return "/apps/threed/" + parts[len(parts)-1]
}
