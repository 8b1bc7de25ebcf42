// Package repository contains the repository layer for the Petition API
package repository

import (
	"fmt"

	"github.com/saveourgreen/petitionapi/internal/models"
	"gorm.io/gorm"
)

// SignatureRepository is the database repository for petition signatures
type SignatureRepository struct {
	DB *gorm.DB
}

// NewSignatureRepository creates a new repository for petition signatures
func NewSignatureRepository(db *gorm.DB) *SignatureRepository {
	return &SignatureRepository{DB: db}
}

// InsertSignature inserts a new signature into the database
func (r *SignatureRepository) InsertSignature(signature *models.Signature) error {
	return r.DB.Create(signature).Error
}

// GetSignatureByEmail gets a signature by email.
// Returns gorm.ErrRecordNotFound when the email has not signed.
func (r *SignatureRepository) GetSignatureByEmail(email string) (*models.Signature, error) {
	var signature models.Signature
	err := r.DB.Where("email = ?", email).First(&signature).Error
	if err != nil {
		return nil, err
	}
	return &signature, nil
}

// GetAllSignatures gets all signatures, newest first
func (r *SignatureRepository) GetAllSignatures() ([]models.Signature, error) {
	var signatures []models.Signature
	err := r.DB.Order("created_at DESC").Find(&signatures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get signatures: %v", err)
	}
	return signatures, nil
}

// GetSignatureCount returns the number of signature rows
func (r *SignatureRepository) GetSignatureCount() (int64, error) {
	var count int64
	err := r.DB.Model(&models.Signature{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get signature count: %v", err)
	}
	return count, nil
}

// DeleteSignatureByID deletes a signature by its primary key
func (r *SignatureRepository) DeleteSignatureByID(id uint) (int64, error) {
	result := r.DB.Delete(&models.Signature{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete signature %d: %v", id, result.Error)
	}
	return result.RowsAffected, nil
}
