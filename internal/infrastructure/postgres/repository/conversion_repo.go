package repository

import (
	"context"
	"errors"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/mappers"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultConversionRepository struct {
	DB *gorm.DB
}

func NewDefaultConversionRepository(db *gorm.DB) *DefaultConversionRepository {
	return &DefaultConversionRepository{DB: db}
}

// Create inserts the conversion. A second insert for the same transaction
// and affiliate trips the unique index and comes back as
// ErrDuplicateCommission so callers can treat it as already-repaired.
func (r *DefaultConversionRepository) Create(ctx context.Context, conv *domain.AffiliateConversion) error {
	convModel := mappers.ToGORMConversion(conv)
	if err := r.DB.WithContext(ctx).Create(convModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCommission
		}
		return err
	}
	return nil
}

func (r *DefaultConversionRepository) CountByTransactionID(ctx context.Context, transactionID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.AffiliateConversionModel{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DefaultConversionRepository) GetByTransactionAndAffiliate(ctx context.Context, transactionID, affiliateID string) (*domain.AffiliateConversion, error) {
	var conv models.AffiliateConversionModel
	err := r.DB.WithContext(ctx).
		First(&conv, "transaction_id = ? AND affiliate_id = ?", transactionID, affiliateID).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainConversion(&conv), nil
}
