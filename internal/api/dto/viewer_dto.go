package dto

import "time"

// ==================== 请求 DTO ====================

// CreateAccountReq 创建账号请求
type CreateAccountReq struct {
	Username string `json:"username" binding:"required,max=50"` // 用户名
	Email    string `json:"email" binding:"required,email"`     // 邮箱
}

// SaveSettingsReq 保存查看器设置请求
// 宽高以字符串传入，空串表示走默认值
type SaveSettingsReq struct {
	Status        string `json:"status" binding:"omitempty,oneof=enable disable"` // enable/disable
	OtherFeatures string `json:"other_features"`                                  // 交互模式名称
	Width         string `json:"width"`                                           // 50-700，可为空
	Height        string `json:"height"`                                          // 50-700，可为空
}

// ==================== 响应 DTO ====================

// AccountResp 账号响应
type AccountResp struct {
	ID        int64     `json:"id"`
	Shop      string    `json:"shop"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	SerialKey string    `json:"serialkey"`
	CreatedAt time.Time `json:"created_at"`
}

// SettingsResp 查看器设置响应
type SettingsResp struct {
	Status        string `json:"status"`
	OtherFeatures string `json:"otherFeatures"`
	Width         *int   `json:"width"`
	Height        *int   `json:"height"`
}

// ModelResp 3D 模型记录响应
type ModelResp struct {
	ID        int64     `json:"id"`
	ProductID string    `json:"productId"`
	Shop      string    `json:"shop"`
	Name      string    `json:"name"`
	ZipFile   *string   `json:"zipFile"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryModelResp 店面投递接口的模型部分
type DeliveryModelResp struct {
	ZipFile *string `json:"zipFile"`
	Name    string  `json:"name"`
}

// DeliveryResp 店面投递接口响应
// {model:{zipFile,name}, settings:{status,otherFeatures,width,height}}
type DeliveryResp struct {
	Model    DeliveryModelResp `json:"model"`
	Settings SettingsResp      `json:"settings"`
}

// ProductPickerItem 商品选择器条目
type ProductPickerItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageSrc string `json:"imageSrc"`
	HasModel bool   `json:"hasModel"`
}

// ProductPickerResp 商品选择器分页响应
type ProductPickerResp struct {
	Products        []ProductPickerItem `json:"products"`
	HasNextPage     bool                `json:"hasNextPage"`
	HasPreviousPage bool                `json:"hasPreviousPage"`
	StartCursor     string              `json:"startCursor"`
	EndCursor       string              `json:"endCursor"`
}
