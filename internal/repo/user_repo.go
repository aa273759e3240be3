// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read-only lookups against the portal's
// user table, which is written by the identity collaborator.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/domain"
)

// UserExists reports whether a user with the given username exists.
func UserExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ?", username).
		Count(&total).Error
	return total > 0, err
}

// GetUserByUsername fetches one user row, or ErrNotFound.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
