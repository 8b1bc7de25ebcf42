package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/saveourgreen/petitionapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockSeoRepository(t *testing.T) (*SeoRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewSeoRepository(gdb), mock
}

func TestUpsertSeoSettings(t *testing.T) {
	repo, mock := newMockSeoRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "seo_settings" .+ ON CONFLICT \("id"\) DO UPDATE SET "title"=.+,"description"=.+,"canonical_url"=.+,"social_tags"=.+,"updated_at"=.+ RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	settings := &models.SeoSettings{
		ID:           42,
		Title:        "Save Our Green",
		Description:  "Sign the petition",
		CanonicalURL: "https://saveourgreen.example/",
		SocialTags:   datatypes.JSON([]byte(`{"og:title":"Save Our Green"}`)),
	}
	require.NoError(t, repo.UpsertSeoSettings(settings))

	// Writes always land on the single settings row.
	assert.Equal(t, uint(1), settings.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
