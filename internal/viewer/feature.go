package viewer

import "log"

// Feature 存储端 otherFeatures 字段对应的交互模式
// 封闭枚举，未知值一律回落到 Normal，不报错
type Feature string

const (
	// FeatureNormal 静态模式：只有相机控制，没有任何自动运动
	FeatureNormal Feature = "Normal"

	// FeatureAutoRotate 持续自转，用户按下暂停，松开恢复
	FeatureAutoRotate Feature = "Auto Rotate"

	// FeatureAutoZoomRotate 三关键帧的环绕 + 视场角插值循环
	FeatureAutoZoomRotate Feature = "Auto Zoom in Zoom out and Rotate"

	// FeatureScrollRotate 相机方位角绑定页面滚动量
	FeatureScrollRotate Feature = "Rotate while Scrolling the Screen"

	// FeatureManualControls roll/pitch/yaw 数字输入直接设置朝向
	FeatureManualControls Feature = "Manual Controls"

	// FeatureMaterialControls 金属度/粗糙度滑杆，模型 load 之后才生效
	FeatureMaterialControls Feature = "Adjust Metalness and Roughness"
)

// ParseFeature 解析存储值
// 返回值第二项表示输入是否是已知模式；未知时回落 Normal 并打一条警告
func ParseFeature(s string) (Feature, bool) {
	switch Feature(s) {
	case FeatureNormal, FeatureAutoRotate, FeatureAutoZoomRotate,
		FeatureScrollRotate, FeatureManualControls, FeatureMaterialControls:
		return Feature(s), true
	}
	log.Printf("未知的交互模式 %q，回落到 Normal", s)
	return FeatureNormal, false
}
