package payroll_test

import (
	"context"
	"database/sql"
	"testing"

	"go-payroll/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPayrollRepoTest(t *testing.T) (payroll.Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	assert.NoError(t, err)

	return payroll.NewRepository(gormDB), db, mock
}

func TestRepositoryWithTx_ExecutesOnCallerTransaction(t *testing.T) {
	ctx := context.Background()
	repo, db, mock := setupPayrollRepoTest(t)

	// Ordered expectations: the only BEGIN on the wire is the caller's. A
	// repository writing through the pooled connection would open its own
	// transaction and fail the EXEC expectation.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payroll_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	transitioned, err := repo.WithTx(tx).UpdateEntryStatusCAS(
		ctx, uuid.New().String(), uuid.New().String(),
		payroll.RunStatusCompleted, payroll.RunStatusUnderReview,
	)
	assert.NoError(t, err)
	assert.True(t, transitioned)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryWithTx_RollbackDiscardsWrite(t *testing.T) {
	ctx := context.Background()
	repo, db, mock := setupPayrollRepoTest(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payroll_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	err = repo.WithTx(tx).UpdateEntryStatusesByRun(
		ctx, uuid.New().String(), uuid.New().String(), payroll.RunStatusUnderReview,
	)
	assert.NoError(t, err)

	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
