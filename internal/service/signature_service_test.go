package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/saveourgreen/petitionapi/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestValidateSignatureRequest(t *testing.T) {
	valid := func() SignatureRequest {
		return SignatureRequest{
			Name:     "Ada Lovelace",
			Email:    "ada@example.org",
			Postcode: "SW1A 1AA",
			Consent:  true,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*SignatureRequest)
		wantErr error
	}{
		{"valid request", func(r *SignatureRequest) {}, nil},
		{"missing name", func(r *SignatureRequest) { r.Name = "  " }, ErrNameRequired},
		{"missing email", func(r *SignatureRequest) { r.Email = "" }, ErrEmailInvalid},
		{"malformed email", func(r *SignatureRequest) { r.Email = "not-an-email" }, ErrEmailInvalid},
		{"email with spaces", func(r *SignatureRequest) { r.Email = "a b@example.org" }, ErrEmailInvalid},
		{"missing postcode", func(r *SignatureRequest) { r.Postcode = "" }, ErrPostcodeInvalid},
		{"not a uk postcode", func(r *SignatureRequest) { r.Postcode = "90210" }, ErrPostcodeInvalid},
		{"postcode without space", func(r *SignatureRequest) { r.Postcode = "sw1a1aa" }, nil},
		{"short outward code", func(r *SignatureRequest) { r.Postcode = "M1 1AE" }, nil},
		{"no consent", func(r *SignatureRequest) { r.Consent = false }, ErrConsentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := ValidateSignatureRequest(&req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSignatureRequest_Normalizes(t *testing.T) {
	req := SignatureRequest{
		Name:     "  Ada Lovelace  ",
		Email:    " Ada@Example.ORG ",
		Postcode: " sw1a 1aa ",
		Comment:  "  save the green  ",
		Consent:  true,
	}
	require.NoError(t, ValidateSignatureRequest(&req))

	assert.Equal(t, "Ada Lovelace", req.Name)
	assert.Equal(t, "ada@example.org", req.Email)
	assert.Equal(t, "SW1A 1AA", req.Postcode)
	assert.Equal(t, "save the green", req.Comment)
}

func newMockSignatureService(t *testing.T) (*SignatureService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return &SignatureService{repo: repository.NewSignatureRepository(gdb)}, mock
}

func TestCreateSignature(t *testing.T) {
	svc, mock := newMockSignatureService(t)
	// Unreachable Redis: the cache drop degrades to a logged warning.
	svc.redisClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	mock.ExpectQuery(`SELECT \* FROM "signatures" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "signatures"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	req := SignatureRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.org",
		Postcode: "SW1A 1AA",
		Consent:  true,
	}
	signature, err := svc.CreateSignature(&req)
	require.NoError(t, err)
	assert.Equal(t, uint(1), signature.ID)
	assert.Equal(t, "ada@example.org", signature.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSignature_DuplicateEmail(t *testing.T) {
	svc, mock := newMockSignatureService(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "postcode", "comment", "consent", "created_at", "updated_at"}).
		AddRow(1, "Ada Lovelace", "ada@example.org", "SW1A 1AA", "", true, now, now)
	mock.ExpectQuery(`SELECT \* FROM "signatures" WHERE email = \$1`).WillReturnRows(rows)

	req := SignatureRequest{
		Name:     "Ada Again",
		Email:    "ada@example.org",
		Postcode: "SW1A 1AA",
		Consent:  true,
	}
	_, err := svc.CreateSignature(&req)
	assert.ErrorIs(t, err, ErrAlreadySigned)

	// No insert ran, and the count cache was left alone: the service has
	// no Redis client here, so a cache touch would have failed loudly.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSignature_UniqueIndexRace(t *testing.T) {
	svc, mock := newMockSignatureService(t)

	// The lookup sees nothing, but a concurrent submission wins the insert.
	mock.ExpectQuery(`SELECT \* FROM "signatures" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "signatures"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	req := SignatureRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.org",
		Postcode: "SW1A 1AA",
		Consent:  true,
	}
	_, err := svc.CreateSignature(&req)
	assert.ErrorIs(t, err, ErrAlreadySigned)
}

func TestExportSignaturesCSV(t *testing.T) {
	svc, mock := newMockSignatureService(t)

	createdAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "postcode", "comment", "consent", "created_at", "updated_at"}).
		AddRow(2, "Ada Lovelace", "ada@example.org", "SW1A 1AA", "save the green", true, createdAt, createdAt).
		AddRow(1, "Alan Turing", "alan@example.org", "M1 1AE", "", true, createdAt, createdAt)
	mock.ExpectQuery(`SELECT \* FROM "signatures"`).WillReturnRows(rows)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportSignaturesCSV(&buf))

	want := "id,name,email,postcode,comment,consent,created_at\n" +
		"2,Ada Lovelace,ada@example.org,SW1A 1AA,save the green,true,2026-04-02T09:30:00Z\n" +
		"1,Alan Turing,alan@example.org,M1 1AE,,true,2026-04-02T09:30:00Z\n"
	assert.Equal(t, want, buf.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportSignaturesCSV_Empty(t *testing.T) {
	svc, mock := newMockSignatureService(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "postcode", "comment", "consent", "created_at", "updated_at"})
	mock.ExpectQuery(`SELECT \* FROM "signatures"`).WillReturnRows(rows)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportSignaturesCSV(&buf))

	assert.Equal(t, "id,name,email,postcode,comment,consent,created_at\n", buf.String())
}

func TestExportSignaturesCSV_QueryError(t *testing.T) {
	svc, mock := newMockSignatureService(t)

	mock.ExpectQuery(`SELECT \* FROM "signatures"`).
		WillReturnError(errors.New("connection reset"))

	var buf bytes.Buffer
	err := svc.ExportSignaturesCSV(&buf)
	require.Error(t, err)

	// Nothing was written, so a caller can still send a clean error status.
	assert.Zero(t, buf.Len())
}
