package review

import "time"

// User is created the first time a reviewerID is seen and never updated
// afterwards. ReviewerID is the natural key from the source data; UserID is
// the store-generated surrogate used everywhere else.
type User struct {
	UserID       int64   `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	ReviewerID   string  `gorm:"column:reviewer_id;uniqueIndex;not null;size:50" json:"reviewer_id"`
	ReviewerName *string `gorm:"column:reviewer_name;size:255" json:"reviewer_name,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string { return "users" }
