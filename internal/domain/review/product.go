package review

import "time"

// Product keeps the category of its first appearance: a later file presenting
// the same asin under another category does not update it (first-write-wins).
type Product struct {
	ProductID int64  `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	ASIN      string `gorm:"column:asin;uniqueIndex;not null;size:50" json:"asin"`
	Category  string `gorm:"column:category;not null;size:50" json:"category"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Product) TableName() string { return "products" }
