package admin

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMembership(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	m := NewSQLMembership(sqlx.NewDb(mockDB, "postgres"))
	q := regexp.QuoteMeta("SELECT user_id FROM admins WHERE user_id = $1")

	admin, other, broken := uuid.New(), uuid.New(), uuid.New()
	mock.ExpectQuery(q).WithArgs(admin).WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(admin.String()))
	mock.ExpectQuery(q).WithArgs(other).WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(q).WithArgs(broken).WillReturnError(errors.New("timeout"))

	ok, err := m.IsAdmin(context.Background(), admin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.IsAdmin(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.IsAdmin(context.Background(), broken)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
