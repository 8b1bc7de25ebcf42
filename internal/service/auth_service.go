// Package service contains the service layer for the Petition API
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/models"
	"github.com/saveourgreen/petitionapi/internal/repository"
	"github.com/saveourgreen/petitionapi/pkg/utils/zaplogger"
	"gorm.io/gorm"
)

// sessionLifetime is how long an issued admin token stays valid
const sessionLifetime = 24 * time.Hour

// tokenBytes is the entropy of an issued token (hex-encoded to 64 chars)
const tokenBytes = 32

// AuthStore is the persistence surface the auth flow needs. Implemented by
// repository.AuthRepository; faked in tests.
type AuthStore interface {
	GetCredential() (*models.AdminCredential, error)
	CreateCredential(credential *models.AdminCredential) error
	DeleteCredentials() error
	CreateSession(session *models.AdminSession) error
	GetSessionByToken(token string) (*models.AdminSession, error)
	GetAllSessions() ([]models.AdminSession, error)
	DeleteSessionByID(id uint) error
	DeleteSessionByToken(token string) error
	DeleteAllSessions() error
}

// TokenSlot is the single-slot store holding the current admin token for
// callers that do not pass one explicitly.
type TokenSlot interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// AuthService owns the admin authentication lifecycle: password
// bootstrap-or-verify, token issuance, validation, logout, reset and
// expired-session cleanup.
//
// Store failures never escape as errors from the public operations; they
// degrade to a false or empty-token result and are logged. A failure
// between the credential write and the session write leaves the password
// set with no session, which the next login attempt resolves by verifying
// against the stored digest.
type AuthService struct {
	store AuthStore
	slot  TokenSlot
	now   func() time.Time
}

// NewAuthService creates a new service for the admin auth flow
func NewAuthService(db *gorm.DB, redisClient *redis.Client) *AuthService {
	return &AuthService{
		store: repository.NewAuthRepository(db),
		slot:  repository.NewRedisTokenSlot(redisClient, sessionLifetime+time.Hour),
		now:   time.Now,
	}
}

// HashPassword returns the lowercase hex SHA-256 digest of the password.
// Deterministic, so stored digests are compared byte-for-byte.
func HashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}

// IsPasswordSet reports whether an admin password has been set. Read-only;
// drives the "set a password" vs "enter password" copy on the panel.
func (s *AuthService) IsPasswordSet() bool {
	_, err := s.store.GetCredential()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zaplogger.Error("failed to read admin credential", zaplogger.Fields{"error": err.Error()})
		}
		return false
	}
	return true
}

// AuthenticateAdmin verifies the password and issues a session token, or
// returns "" on rejection or failure.
//
// The first password ever submitted becomes the admin password: when no
// credential exists the digest is stored and the call proceeds as a
// successful login. Every successful login deletes all other sessions, so
// at most one token is valid at a time.
func (s *AuthService) AuthenticateAdmin(password string) string {
	if strings.TrimSpace(password) == "" {
		return ""
	}

	digest := HashPassword(password)

	credential, err := s.store.GetCredential()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zaplogger.Error("failed to read admin credential", zaplogger.Fields{"error": err.Error()})
			return ""
		}
		// First-time setup: this password becomes the admin password.
		if err := s.store.DeleteCredentials(); err != nil {
			zaplogger.Error("failed to clear stale credentials", zaplogger.Fields{"error": err.Error()})
			return ""
		}
		if err := s.store.CreateCredential(&models.AdminCredential{PasswordHash: digest}); err != nil {
			zaplogger.Error("failed to store admin credential", zaplogger.Fields{"error": err.Error()})
			return ""
		}
		zaplogger.Info("admin password set on first login")
	} else if credential.PasswordHash != digest {
		return ""
	}

	return s.issueSession()
}

// issueSession invalidates all prior sessions, inserts a fresh one and
// writes its token to the slot. Returns "" on any store failure.
func (s *AuthService) issueSession() string {
	if err := s.store.DeleteAllSessions(); err != nil {
		zaplogger.Error("failed to invalidate prior sessions", zaplogger.Fields{"error": err.Error()})
		return ""
	}

	token, err := generateToken()
	if err != nil {
		zaplogger.Error("failed to generate session token", zaplogger.Fields{"error": err.Error()})
		return ""
	}

	session := &models.AdminSession{
		UserID:    models.AdminUserID,
		Token:     token,
		ExpiresAt: s.now().Add(sessionLifetime).Unix(),
	}
	if err := s.store.CreateSession(session); err != nil {
		zaplogger.Error("failed to create session", zaplogger.Fields{"error": err.Error()})
		return ""
	}

	if err := s.slot.Set(token); err != nil {
		zaplogger.Error("failed to store session token", zaplogger.Fields{"error": err.Error()})
		return ""
	}

	return token
}

// ValidateSession reports whether the token belongs to a live session. An
// empty token argument falls back to the slot. Validation does not extend
// expiry; an expired session is deleted on the spot.
func (s *AuthService) ValidateSession(token string) bool {
	if token == "" {
		stored, err := s.slot.Get()
		if err != nil {
			zaplogger.Error("failed to read token slot", zaplogger.Fields{"error": err.Error()})
			return false
		}
		token = stored
	}
	if token == "" {
		return false
	}

	session, err := s.store.GetSessionByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.clearSlot()
			return false
		}
		zaplogger.Error("failed to look up session", zaplogger.Fields{"error": err.Error()})
		return false
	}

	// A row not owned by the admin user must never validate, whatever the
	// token lookup returned.
	if session.UserID != models.AdminUserID {
		s.clearSlot()
		return false
	}

	if session.IsExpired(s.now()) {
		if err := s.store.DeleteSessionByID(session.ID); err != nil {
			zaplogger.Error("failed to delete expired session", zaplogger.Fields{"error": err.Error()})
		}
		s.clearSlot()
		return false
	}

	return true
}

// ResetAdminPassword deletes the stored credential and logs out. The next
// login bootstraps a fresh password. Returns false when the credential
// delete failed, possibly after a partial deletion.
func (s *AuthService) ResetAdminPassword() bool {
	if err := s.store.DeleteCredentials(); err != nil {
		zaplogger.Error("failed to reset admin password", zaplogger.Fields{"error": err.Error()})
		return false
	}
	s.LogoutAdmin()
	zaplogger.Info("admin password reset")
	return true
}

// LogoutAdmin deletes the session held in the slot, tolerating a failed
// delete, and always clears the slot.
func (s *AuthService) LogoutAdmin() {
	token, err := s.slot.Get()
	if err != nil {
		zaplogger.Error("failed to read token slot", zaplogger.Fields{"error": err.Error()})
	}
	if token != "" {
		if err := s.store.DeleteSessionByToken(token); err != nil {
			zaplogger.Error("failed to delete session on logout", zaplogger.Fields{"error": err.Error()})
		}
	}
	s.clearSlot()
}

// LogoutToken deletes the session holding the given token and clears the
// slot if it held the same token. Used by the logout endpoint, where the
// caller presents its own bearer token.
func (s *AuthService) LogoutToken(token string) {
	if token == "" {
		s.LogoutAdmin()
		return
	}
	if err := s.store.DeleteSessionByToken(token); err != nil {
		zaplogger.Error("failed to delete session on logout", zaplogger.Fields{"error": err.Error()})
	}
	stored, err := s.slot.Get()
	if err != nil {
		zaplogger.Error("failed to read token slot", zaplogger.Fields{"error": err.Error()})
		return
	}
	if stored == token {
		s.clearSlot()
	}
}

// CleanupExpiredSessions is the maintenance sweep removing every session
// whose expiry has passed. Failures are logged and swallowed; the sweep
// continues past a failed delete.
func (s *AuthService) CleanupExpiredSessions() {
	sessions, err := s.store.GetAllSessions()
	if err != nil {
		zaplogger.Error("failed to list sessions for cleanup", zaplogger.Fields{"error": err.Error()})
		return
	}

	now := s.now()
	removed := 0
	for _, session := range sessions {
		if !session.IsExpired(now) {
			continue
		}
		if err := s.store.DeleteSessionByID(session.ID); err != nil {
			zaplogger.Error("failed to delete expired session", zaplogger.Fields{
				"session_id": session.ID,
				"error":      err.Error(),
			})
			continue
		}
		removed++
	}

	if removed > 0 {
		zaplogger.Info("removed expired admin sessions", zaplogger.Fields{"count": removed})
	}
}

func (s *AuthService) clearSlot() {
	if err := s.slot.Clear(); err != nil {
		zaplogger.Error("failed to clear token slot", zaplogger.Fields{"error": err.Error()})
	}
}

// generateToken returns a new hex-encoded random bearer token
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
