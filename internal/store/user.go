package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/models"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"gorm.io/gorm"
)

// UserStore reads admin accounts.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByUsername returns util.ErrNotFound when no such user exists.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Authenticate checks username and password. Unknown users and wrong
// passwords both return util.ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureUser creates the user with the given password unless the username
// already exists. Existing passwords are never changed.
func (s *UserStore) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, util.ErrNotFound) {
		return false, err
	}

	salt, hash := util.HashPassword(password, "")
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}
