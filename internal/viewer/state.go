package viewer

// 每个查看器实例一份显式状态，替代原先散落的全局可变量
// 状态只通过纯函数 Step 推进，同一页面多个实例互不串扰

// ==================== 关键帧 ====================

// Keyframe 相机关键帧：环绕角 + 距离 + 视场角
type Keyframe struct {
	Theta  float64 // 方位角 (deg)
	Phi    float64 // 极角 (deg)
	Radius float64 // 距离 (%)
	FOV    float64 // 视场角 (deg)
}

// ZoomKeyframes 自动缩放环绕模式的循环关键帧
var ZoomKeyframes = [3]Keyframe{
	{Theta: 45, Phi: 55, Radius: 150, FOV: 40},
	{Theta: -60, Phi: 110, Radius: 100, FOV: 50},
	{Theta: 0, Phi: 75, Radius: 120, FOV: 30},
}

// 每对关键帧之间线性过渡 3 秒；松开后延迟 100ms 再恢复动画
const (
	TransitionMillis = 3000.0
	ResumeDelayMs    = 100.0
)

// ==================== 状态 ====================

// Phase 实例所处阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAutoAnimating
	PhaseUserInteracting
)

// State 单个查看器实例的完整动画状态
type State struct {
	Feature Feature
	Phase   Phase

	// FrameActive 是否有在途的动画帧；同一实例同一时刻至多一个动画循环，
	// 新循环启动前必须先置 false（等价于取消旧帧句柄）
	FrameActive bool

	// 关键帧插值进度
	CurrentIndex    int
	NextIndex       int
	TransitionStart float64 // 当前段起始时间戳 (ms)，0 表示未开始

	// ResumeAt 松开后的恢复时刻 (ms)，0 表示没有挂起的恢复
	ResumeAt float64
}

// Start 按模式初始化实例状态
func Start(f Feature) State {
	s := State{Feature: f, Phase: PhaseIdle, NextIndex: 1}
	switch f {
	case FeatureAutoRotate, FeatureScrollRotate:
		// 属性驱动的自动运动，不需要动画帧循环
		s.Phase = PhaseAutoAnimating
	case FeatureAutoZoomRotate:
		s.Phase = PhaseAutoAnimating
		s.FrameActive = true
	}
	return s
}

// ==================== 事件 ====================

type Event interface{ isEvent() }

// PointerDown 用户按下，At 为事件时间戳 (ms)
type PointerDown struct{ At float64 }

// PointerUp 松开 / 指针离开
type PointerUp struct{ At float64 }

// FrameTick 一帧动画回调
type FrameTick struct{ At float64 }

func (PointerDown) isEvent() {}
func (PointerUp) isEvent()   {}
func (FrameTick) isEvent()   {}

// ==================== 推进 ====================

// CameraPose 一帧插值得到的相机姿态，nil 表示这帧没有更新
type CameraPose struct {
	Theta, Phi, Radius, FOV float64
}

// Step 纯函数推进状态机，返回新状态和（可能的）相机姿态
func Step(s State, ev Event) (State, *CameraPose) {
	switch e := ev.(type) {
	case PointerDown:
		s.Phase = PhaseUserInteracting
		// 取消在途帧，避免交互期间继续插值
		s.FrameActive = false
		// 按下即安排一次延迟恢复，长按期间每次按下都会重置
		s.ResumeAt = e.At + ResumeDelayMs
		return s, nil

	case PointerUp:
		if s.Phase != PhaseUserInteracting {
			return s, nil
		}
		s.Phase = PhaseAutoAnimating
		s.ResumeAt = 0
		if s.Feature == FeatureAutoZoomRotate {
			// 从当前关键帧段继续，不回到第 0 帧
			s.FrameActive = true
		}
		return s, nil

	case FrameTick:
		if s.Phase != PhaseAutoAnimating || !s.FrameActive || s.Feature != FeatureAutoZoomRotate {
			return s, nil
		}
		if s.TransitionStart == 0 {
			s.TransitionStart = e.At
		}
		progress := (e.At - s.TransitionStart) / TransitionMillis
		if progress > 1 {
			progress = 1
		}
		pose := interpolate(ZoomKeyframes[s.CurrentIndex], ZoomKeyframes[s.NextIndex], progress)
		if progress >= 1 {
			s.CurrentIndex = s.NextIndex
			s.NextIndex = (s.NextIndex + 1) % len(ZoomKeyframes)
			s.TransitionStart = 0
		}
		return s, &pose
	}
	return s, nil
}

func interpolate(from, to Keyframe, progress float64) CameraPose {
	lerp := func(a, b float64) float64 { return a + (b-a)*progress }
	return CameraPose{
		Theta:  lerp(from.Theta, to.Theta),
		Phi:    lerp(from.Phi, to.Phi),
		Radius: lerp(from.Radius, to.Radius),
		FOV:    lerp(from.FOV, to.FOV),
	}
}

// ScrollAzimuth 滚动模式下方位角对滚动比例的单调映射
// fraction 取 [0,1]，整页滚完正好转一圈
func ScrollAzimuth(s State, fraction float64) (float64, bool) {
	if s.Feature != FeatureScrollRotate || s.Phase == PhaseUserInteracting {
		return 0, false
	}
	return 360 * fraction, true
}
