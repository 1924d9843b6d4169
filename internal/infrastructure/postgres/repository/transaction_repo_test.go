package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func strptr(s string) *string { return &s }

func TestGetByIDNotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDefaultTransactionRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "transaction_models"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateChannelGuardsStoredAccountNumber(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDefaultTransactionRepository(gormDB)

	// A real account number write must carry the overwrite guard.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transaction_models" SET .* WHERE id = .* AND \(account_number = '' OR placeholder = .* OR account_number LIKE 'http%'\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateChannel(context.Background(), "trx-1", domain.ChannelPatch{
		AccountNumber: strptr("8808812345678901"),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateChannelRedirectWriteHasNoGuard(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDefaultTransactionRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transaction_models" SET .* WHERE id = \$\d+$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateChannel(context.Background(), "trx-1", domain.ChannelPatch{
		PaymentURL: strptr("https://checkout.xendit.co/web/abc"),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidByExternalIDRequiresPendingRow(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDefaultTransactionRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transaction_models" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.MarkPaidByExternalID(context.Background(), "TXN-1", time.Now())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkExpiredReturnsAffectedRows(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDefaultTransactionRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transaction_models" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	count, err := repo.MarkExpired(context.Background(), time.Now())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversionCreateMapsDuplicateKey(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDefaultConversionRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "affiliate_conversion_models"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &domain.AffiliateConversion{
		ID:               "conv-1",
		AffiliateID:      "aff-1",
		TransactionID:    "trx-1",
		CommissionAmount: 300_000,
		CommissionRate:   30,
		CommissionType:   domain.CommissionPercentage,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCommission)
	assert.NoError(t, mock.ExpectationsWereMet())
}
