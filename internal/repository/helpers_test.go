package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cardlink/transfer-service/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a db.DB backed by sqlmock. Expectations are verified
// on test cleanup.
func newMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})

	return db.NewSilentDB(sqlDB), mock
}
