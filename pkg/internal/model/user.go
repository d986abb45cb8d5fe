package model

import "time"

// User 注册用户.
type User struct {
	UserID       uint      `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username     string    `gorm:"size:150;not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName 固定表名.
func (User) TableName() string {
	return "users"
}

// AllModels 返回需要迁移的全部模型.
func AllModels() []any {
	return []any{&User{}, &FileRecord{}}
}
