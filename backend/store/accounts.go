// Package store implements the account store: a durable mapping from email
// to registered user record. Records are created once at signup and patched
// in place on profile updates; there is no delete operation.
package store

import (
	"errors"

	"github.com/Poornima1010/SmartLearning/backend/apperror"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"gorm.io/gorm"
)

type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Register inserts a new account. Email uniqueness is checked up front so
// the caller gets a typed duplicate error instead of a driver-specific
// constraint violation.
func (s *AccountStore) Register(user *models.User) error {
	var existing models.User
	err := s.db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return apperror.NewDuplicateAccountError("An account with this email already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewDatabaseError("Could not query accounts", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return apperror.NewDatabaseError("Could not create account", err)
	}
	return nil
}

// Lookup returns the account registered under email.
func (s *AccountStore) Lookup(email string) (models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperror.NewAccountNotFoundError("No account found with that email.")
	}
	if err != nil {
		return models.User{}, apperror.NewDatabaseError("Could not query accounts", err)
	}
	return user, nil
}

// Patch merges the given column values into the account registered under
// email. Patching an unknown email is a no-op; the session update path has
// already validated presence.
func (s *AccountStore) Patch(email string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := s.db.Model(&models.User{}).Where("email = ?", email).Updates(fields).Error
	if err != nil {
		return apperror.NewDatabaseError("Could not update account", err)
	}
	return nil
}
