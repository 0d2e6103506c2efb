package model

// Account 店铺的许可账号
// 每个店铺只建一次，Serial Key 生成后不可变，只读展示
type Account struct {
	BaseModel
	Shop      string `gorm:"size:255;uniqueIndex;not null"` // 店铺域名 (唯一键)
	Username  string `gorm:"size:100;uniqueIndex;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	SerialKey string `gorm:"size:100;column:serialkey;not null"` // 创建时生成，之后不可变
}

func (Account) TableName() string {
	return "accounts"
}
