package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGormQueriesServerVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT VERSION()").
		WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("8.0.36"))

	gdb, err := OpenGorm(db, false)
	require.NoError(t, err)
	assert.True(t, gdb.Config.TranslateError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenFailsOnUnreachableServer(t *testing.T) {
	_, err := Open("u:p@tcp(127.0.0.1:1)/hbnb?parseTime=true&timeout=200ms")
	assert.Error(t, err)
}
