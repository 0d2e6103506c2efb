package model

// ==================== 枚举 ====================

// SettingsStatus 查看器开关状态
type SettingsStatus = string

const (
	StatusEnable  SettingsStatus = "enable"
	StatusDisable SettingsStatus = "disable"
)

// 尺寸边界，width/height 必须落在 [50, 700]，空值表示自适应
const (
	DimensionMin = 50
	DimensionMax = 700
)

// ==================== 模型 ====================

// ViewerSettings 每个店铺一条的查看器配置
// 每次保存设置页都会 upsert；不存在时按默认值创建
type ViewerSettings struct {
	BaseModel
	Shop          string `gorm:"size:255;uniqueIndex;not null"`
	SerialKey     string `gorm:"size:100;column:serial_key"`
	Status        string `gorm:"size:20;default:enable"` // enable / disable
	OtherFeatures string `gorm:"size:100"`               // 交互模式枚举，见 viewer.Feature
	Width         *int   `gorm:""`                       // 像素宽，nil = 自适应
	Height        *int   `gorm:""`                       // 像素高，nil = 自适应
}

func (ViewerSettings) TableName() string {
	return "three_d_product_viewer_settings"
}
