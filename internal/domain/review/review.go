package review

import "time"

// Review is append-only: one row per input line, never updated or deleted by
// the pipeline. ReviewDate is null when the textual date failed to parse.
type Review struct {
	ReviewID   int64      `gorm:"column:review_id;primaryKey;autoIncrement" json:"review_id"`
	UserID     int64      `gorm:"column:user_id;not null;index" json:"user_id"`
	ProductID  int64      `gorm:"column:product_id;not null;index" json:"product_id"`
	Overall    float64    `gorm:"column:overall" json:"overall"`
	ReviewDate *time.Time `gorm:"column:review_date;type:date" json:"review_date,omitempty"`
	UnixTime   int64      `gorm:"column:unix_time" json:"unix_time"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
