// Package service contains the service layer for the Petition API
package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/models"
	"github.com/saveourgreen/petitionapi/internal/repository"
	"github.com/saveourgreen/petitionapi/pkg/utils/zaplogger"
	"gorm.io/gorm"
)

// signatureCountKey is the Redis key caching the signature count
const signatureCountKey = "petition:signature:count"

// signatureCountTTL bounds staleness between cron refreshes
const signatureCountTTL = 5 * time.Minute

var (
	ErrNameRequired    = errors.New("`name` is required")
	ErrEmailInvalid    = errors.New("`email` is missing or invalid")
	ErrPostcodeInvalid = errors.New("`postcode` is missing or not a UK postcode")
	ErrConsentRequired = errors.New("`consent` must be given to sign")
	ErrAlreadySigned   = errors.New("this email has already signed")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ukPostcodePattern accepts the outward+inward form, case-insensitive,
// with an optional separating space.
var ukPostcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

// SignatureRequest is the public form payload
type SignatureRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Postcode string `json:"postcode" form:"postcode"`
	Comment  string `json:"comment" form:"comment"`
	Consent  bool   `json:"consent" form:"consent"`
}

// SignatureService is the service for petition signatures
type SignatureService struct {
	repo        *repository.SignatureRepository
	redisClient *redis.Client
}

// NewSignatureService creates a new service for petition signatures
func NewSignatureService(db *gorm.DB, redisClient *redis.Client) *SignatureService {
	return &SignatureService{
		repo:        repository.NewSignatureRepository(db),
		redisClient: redisClient,
	}
}

// ValidateSignatureRequest normalizes the request in place and returns the
// first validation error, or nil when the request is signable.
func ValidateSignatureRequest(req *SignatureRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Postcode = strings.ToUpper(strings.TrimSpace(req.Postcode))
	req.Comment = strings.TrimSpace(req.Comment)

	if req.Name == "" {
		return ErrNameRequired
	}
	if !emailPattern.MatchString(req.Email) {
		return ErrEmailInvalid
	}
	if !ukPostcodePattern.MatchString(req.Postcode) {
		return ErrPostcodeInvalid
	}
	if !req.Consent {
		return ErrConsentRequired
	}
	return nil
}

// CreateSignature validates and stores a new signature, rejecting duplicate
// emails, and drops the cached count so the next read is fresh.
func (s *SignatureService) CreateSignature(req *SignatureRequest) (*models.Signature, error) {
	if err := ValidateSignatureRequest(req); err != nil {
		return nil, err
	}

	_, err := s.repo.GetSignatureByEmail(req.Email)
	if err == nil {
		return nil, ErrAlreadySigned
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing signature: %v", err)
	}

	signature := &models.Signature{
		Name:     req.Name,
		Email:    req.Email,
		Postcode: req.Postcode,
		Comment:  req.Comment,
		Consent:  req.Consent,
	}
	if err := s.repo.InsertSignature(signature); err != nil {
		// A concurrent submission can slip past the lookup and hit the
		// unique index on email instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySigned
		}
		return nil, fmt.Errorf("failed to insert signature: %v", err)
	}

	s.invalidateCountCache()

	return signature, nil
}

// GetSignatureCount returns the signature count, served from Redis when the
// cached value is present.
func (s *SignatureService) GetSignatureCount() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cached, err := s.redisClient.Get(ctx, signatureCountKey).Result()
	if err == nil {
		count, parseErr := strconv.ParseInt(cached, 10, 64)
		if parseErr == nil {
			return count, nil
		}
		// Unparseable cache entry, fall through to the database.
	} else if !errors.Is(err, redis.Nil) {
		zaplogger.Warn("failed to read signature count cache", zaplogger.Fields{"error": err.Error()})
	}

	return s.RefreshSignatureCount()
}

// RefreshSignatureCount recounts from the database and rewrites the cache
func (s *SignatureService) RefreshSignatureCount() (int64, error) {
	count, err := s.repo.GetSignatureCount()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.redisClient.Set(ctx, signatureCountKey, strconv.FormatInt(count, 10), signatureCountTTL).Err(); err != nil {
		zaplogger.Warn("failed to write signature count cache", zaplogger.Fields{"error": err.Error()})
	}
	return count, nil
}

// GetAllSignatures returns all signatures, newest first
func (s *SignatureService) GetAllSignatures() ([]models.Signature, error) {
	return s.repo.GetAllSignatures()
}

// DeleteSignature removes one signature and drops the cached count
func (s *SignatureService) DeleteSignature(id uint) (int64, error) {
	rowsAffected, err := s.repo.DeleteSignatureByID(id)
	if err != nil {
		return 0, err
	}
	if rowsAffected > 0 {
		s.invalidateCountCache()
	}
	return rowsAffected, nil
}

// ExportSignaturesCSV fetches all signatures and writes them as CSV to w.
// Nothing is written when the fetch fails, so callers can still report the
// error instead of a truncated body.
func (s *SignatureService) ExportSignaturesCSV(w io.Writer) error {
	signatures, err := s.repo.GetAllSignatures()
	if err != nil {
		return err
	}
	return WriteSignaturesCSV(w, signatures)
}

// WriteSignaturesCSV writes already-fetched signatures as CSV, header row first
func WriteSignaturesCSV(w io.Writer, signatures []models.Signature) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "email", "postcode", "comment", "consent", "created_at"}); err != nil {
		return fmt.Errorf("failed to write csv header: %v", err)
	}
	for _, signature := range signatures {
		record := []string{
			strconv.FormatUint(uint64(signature.ID), 10),
			signature.Name,
			signature.Email,
			signature.Postcode,
			signature.Comment,
			strconv.FormatBool(signature.Consent),
			signature.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %v", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *SignatureService) invalidateCountCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.redisClient.Del(ctx, signatureCountKey).Err(); err != nil {
		zaplogger.Warn("failed to invalidate signature count cache", zaplogger.Fields{"error": err.Error()})
	}
}
