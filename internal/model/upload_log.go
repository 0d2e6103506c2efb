package model

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// UploadLog ZIP 上传的审计记录，每次尝试一条
type UploadLog struct {
	BaseModel
	Shop     string         `gorm:"size:255;index;not null"`
	FileName string         `gorm:"size:255;not null"`
	Size     int64          `gorm:"default:0"`
	Entries  pq.StringArray `gorm:"type:text[]"` // 压缩包条目清单
	Success  bool           `gorm:"default:false"`
	Error    string         `gorm:"size:500"`
}

func (UploadLog) TableName() string {
	return "upload_logs"
}

// WebhookLog 收到的合规 Webhook 记录
type WebhookLog struct {
	BaseModel
	Shop    string         `gorm:"size:255;index;not null"`
	Topic   string         `gorm:"size:100;index;not null"`
	Payload datatypes.JSON `gorm:"type:jsonb"` // 原始载荷
}

func (WebhookLog) TableName() string {
	return "webhook_logs"
}
