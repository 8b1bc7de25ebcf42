package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockAuthRepository(t *testing.T) (*AuthRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewAuthRepository(gdb), mock
}

func TestGetCredential(t *testing.T) {
	repo, mock := newMockAuthRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "password_hash", "created_at", "updated_at"}).
		AddRow(1, "abc123", now, now)
	mock.ExpectQuery(`SELECT \* FROM "admin_credential"`).WillReturnRows(rows)

	credential, err := repo.GetCredential()
	require.NoError(t, err)
	assert.Equal(t, "abc123", credential.PasswordHash)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCredential_NotFound(t *testing.T) {
	repo, mock := newMockAuthRepository(t)

	rows := sqlmock.NewRows([]string{"id", "password_hash", "created_at", "updated_at"})
	mock.ExpectQuery(`SELECT \* FROM "admin_credential"`).WillReturnRows(rows)

	_, err := repo.GetCredential()
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetSessionByToken(t *testing.T) {
	repo, mock := newMockAuthRepository(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at", "updated_at"}).
		AddRow(7, "admin", "tok-1", now.Add(time.Hour).Unix(), now, now)
	mock.ExpectQuery(`SELECT \* FROM "admin_sessions" WHERE token = \$1`).
		WithArgs("tok-1", 1).
		WillReturnRows(rows)

	session, err := repo.GetSessionByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, uint(7), session.ID)
	assert.Equal(t, "admin", session.UserID)
}

func TestDeleteAllSessions(t *testing.T) {
	repo, mock := newMockAuthRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "admin_sessions"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteAllSessions())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSessionByToken(t *testing.T) {
	repo, mock := newMockAuthRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "admin_sessions" WHERE token = \$1`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteSessionByToken("tok-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
