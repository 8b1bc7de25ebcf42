// Package repository contains the repository layer for the Petition API
package repository

import (
	"fmt"

	"github.com/saveourgreen/petitionapi/internal/models"
	"gorm.io/gorm"
)

// AuthRepository is the database repository for admin credentials and sessions
type AuthRepository struct {
	DB *gorm.DB
}

// NewAuthRepository creates a new repository for the admin auth flow
func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{DB: db}
}

// GetCredential returns the stored admin credential.
// Returns gorm.ErrRecordNotFound when no password has been set yet.
func (r *AuthRepository) GetCredential() (*models.AdminCredential, error) {
	var credential models.AdminCredential
	err := r.DB.First(&credential).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

// CreateCredential inserts a new admin credential row
func (r *AuthRepository) CreateCredential(credential *models.AdminCredential) error {
	return r.DB.Create(credential).Error
}

// DeleteCredentials deletes all credential rows. The table should hold at
// most one row, but the delete is unconditional to recover from a bad state.
func (r *AuthRepository) DeleteCredentials() error {
	err := r.DB.Where("1 = 1").Delete(&models.AdminCredential{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete admin credentials: %v", err)
	}
	return nil
}

// CreateSession inserts a new admin session row
func (r *AuthRepository) CreateSession(session *models.AdminSession) error {
	return r.DB.Create(session).Error
}

// GetSessionByToken gets a session by its bearer token
func (r *AuthRepository) GetSessionByToken(token string) (*models.AdminSession, error) {
	var session models.AdminSession
	err := r.DB.Where("token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetAllSessions gets all session rows
func (r *AuthRepository) GetAllSessions() ([]models.AdminSession, error) {
	var sessions []models.AdminSession
	err := r.DB.Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get admin sessions: %v", err)
	}
	return sessions, nil
}

// DeleteSessionByID deletes a session by its primary key
func (r *AuthRepository) DeleteSessionByID(id uint) error {
	return r.DB.Delete(&models.AdminSession{}, id).Error
}

// DeleteSessionByToken deletes the session holding the given token
func (r *AuthRepository) DeleteSessionByToken(token string) error {
	return r.DB.Where("token = ?", token).Delete(&models.AdminSession{}).Error
}

// DeleteAllSessions deletes every session row. Called on successful login so
// that only the newly issued session remains valid.
func (r *AuthRepository) DeleteAllSessions() error {
	err := r.DB.Where("1 = 1").Delete(&models.AdminSession{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete admin sessions: %v", err)
	}
	return nil
}
