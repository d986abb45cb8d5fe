package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/sharevault/pkg/internal/model"
)

// UserRepository 用户仓储.
type UserRepository struct {
	db *gorm.DB
}

// Users 返回绑定当前连接的用户仓储.
func (c *Client) Users() *UserRepository {
	return &UserRepository{db: c.DB}
}

// Create 新建用户，用户名冲突返回 ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("create user %q: %w", u.Username, ErrDuplicateKey)
		}

		return fmt.Errorf("create user %q: %w", u.Username, err)
	}

	return nil
}

// GetByUsername 按用户名读取.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	return &u, nil
}

// Get 按 id 读取.
func (r *UserRepository) Get(ctx context.Context, id uint) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).Where("user_id = ?", id).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	return &u, nil
}
