package main

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCloseDB_ReleasesPool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectClose()
	closeDB(db)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseDB_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { closeDB(nil) })
}

func TestIssueToken_RequiresSubject(t *testing.T) {
	assert.Equal(t, 2, issueToken(nil, ""))
}
