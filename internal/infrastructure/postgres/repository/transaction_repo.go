package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/mappers"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

func (r *DefaultTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	txModel := mappers.ToGORMTransaction(tx)
	if err := r.DB.WithContext(ctx).Create(txModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var tx models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return mappers.ToDomainTransaction(&tx), nil
}

func (r *DefaultTransactionRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Transaction, error) {
	var tx models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&tx, "external_id = ?", externalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return mappers.ToDomainTransaction(&tx), nil
}

func (r *DefaultTransactionRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.DB.WithContext(ctx).Where("id IN (?)", ids).Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(txModels))
	for i := range txModels {
		transactions = append(transactions, mappers.ToDomainTransaction(&txModels[i]))
	}
	return transactions, nil
}

func (r *DefaultTransactionRepository) FindSettledWithAffiliate(ctx context.Context, from, to time.Time, limit int) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusPaid).
		Where("affiliate_user_id IS NOT NULL AND affiliate_user_id <> ''").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at ASC").
		Limit(limit).
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(txModels))
	for i := range txModels {
		transactions = append(transactions, mappers.ToDomainTransaction(&txModels[i]))
	}
	return transactions, nil
}

// UpdateChannel applies the patch conditionally: once a row holds a real
// account number, another account number never replaces it. Placeholder
// rows and rows whose number is actually a URL stay writable.
func (r *DefaultTransactionRepository) UpdateChannel(ctx context.Context, id string, patch domain.ChannelPatch) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.AccountNumber != nil {
		updates["account_number"] = *patch.AccountNumber
	}
	if patch.BankCode != nil {
		updates["bank_code"] = *patch.BankCode
	}
	if patch.BankName != nil {
		updates["bank_name"] = *patch.BankName
	}
	if patch.GatewayRef != nil {
		updates["gateway_ref"] = *patch.GatewayRef
	}
	if patch.Placeholder != nil {
		updates["placeholder"] = *patch.Placeholder
	}
	if patch.PaymentURL != nil {
		updates["payment_url"] = *patch.PaymentURL
	}
	if patch.PaymentProvider != nil {
		updates["payment_provider"] = *patch.PaymentProvider
	}
	if patch.PaymentMethod != nil {
		updates["payment_method"] = *patch.PaymentMethod
	}
	if patch.ExpiresAt != nil {
		updates["channel_expires_at"] = *patch.ExpiresAt
	}

	query := r.DB.WithContext(ctx).Model(&models.TransactionModel{}).Where("id = ?", id)
	if patch.AccountNumber != nil && !domain.IsChannelURL(*patch.AccountNumber) {
		query = query.Where(
			"account_number = '' OR placeholder = ? OR account_number LIKE 'http%'",
			true,
		)
	}

	// Zero rows affected means the guard held, not a failure.
	return query.Updates(updates).Error
}

func (r *DefaultTransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	updatedModel := models.TransactionModel{
		ID:     id,
		Status: status,
	}

	if err := r.DB.WithContext(ctx).Updates(&updatedModel).Error; err != nil {
		return err
	}

	return nil
}

func (r *DefaultTransactionRepository) MarkPaidByExternalID(ctx context.Context, externalID string, paidAt time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("external_id = ? AND status = ?", externalID, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":     domain.StatusPaid,
			"paid_at":    paidAt,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *DefaultTransactionRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("status = ? AND expired_at IS NOT NULL AND expired_at < ?", domain.StatusPending, now).
		Updates(map[string]interface{}{
			"status":     domain.StatusExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
