// Package models contains the models for the Petition API
package models

import (
	"time"
)

const SignaturesTableName = "signatures"

// Signature is one signed petition entry submitted through the public form.
type Signature struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Postcode  string    `gorm:"not null" json:"postcode"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	Consent   bool      `gorm:"not null" json:"consent"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Signature) TableName() string {
	return SignaturesTableName
}
