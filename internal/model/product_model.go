package model

import "time"

// ProductModel 商品与 3D 模型资产的关联记录
// (product_id, shop) 组合唯一；ProductID 永远是规范的 gid://shopify/Product/<数字> 形式
type ProductModel struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ProductID string    `gorm:"size:255;uniqueIndex:idx_product_shop;not null" json:"productId"`
	Shop      string    `gorm:"size:255;uniqueIndex:idx_product_shop;not null" json:"shop"`
	Name      string    `gorm:"size:255;not null" json:"name"` // 展示名
	ZipFile   *string   `gorm:"size:500" json:"zipFile"`       // 解压后资产的公开路径，未上传时为 nil
	CreatedAt time.Time `json:"createdAt"`
}

func (ProductModel) TableName() string {
	return "three_d_product_viewer_models"
}

// Product 商品选择页的本地缓存
// 每次从 Admin GraphQL 拉取商品分页后 upsert，避免选择页反复打远端
type Product struct {
	ID       string `gorm:"size:255;uniqueIndex:idx_product_cache;not null" json:"id"` // gid
	Shop     string `gorm:"size:255;uniqueIndex:idx_product_cache;not null" json:"shop"`
	Title    string `gorm:"size:255" json:"title"`
	ImageSrc string `gorm:"size:500" json:"imageSrc"`
}

func (Product) TableName() string {
	return "products"
}
