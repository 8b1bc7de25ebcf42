// Package models contains the models for the Petition API
package models

import (
	"time"
)

const AdminCredentialTableName = "admin_credential"
const AdminSessionsTableName = "admin_sessions"

// AdminUserID is the user id recorded on every admin session row
const AdminUserID = "admin"

// AdminCredential holds the one-way digest of the admin password.
// The table holds at most one row; reset deletes it and the next
// successful login recreates it.
type AdminCredential struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PasswordHash string    `gorm:"size:64;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (AdminCredential) TableName() string {
	return AdminCredentialTableName
}

// AdminSession is a bearer-token session row. ExpiresAt is unix seconds.
type AdminSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex" json:"-"`
	ExpiresAt int64     `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (AdminSession) TableName() string {
	return AdminSessionsTableName
}

// IsExpired reports whether the session expiry is strictly in the past.
func (s *AdminSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt < now.Unix()
}
