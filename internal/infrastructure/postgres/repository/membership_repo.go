package repository

import (
	"context"
	"errors"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/mappers"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultMembershipCatalog struct {
	DB *gorm.DB
}

func NewDefaultMembershipCatalog(db *gorm.DB) *DefaultMembershipCatalog {
	return &DefaultMembershipCatalog{DB: db}
}

func (r *DefaultMembershipCatalog) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	var membership models.MembershipModel
	if err := r.DB.WithContext(ctx).First(&membership, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}

	return mappers.ToDomainMembership(&membership), nil
}

func (r *DefaultMembershipCatalog) GetCommissionRate(ctx context.Context, id string) (float64, domain.CommissionType, error) {
	membership, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, domain.CommissionPercentage, err
	}

	commissionType := membership.CommissionType
	if commissionType == "" {
		commissionType = domain.CommissionPercentage
	}
	return membership.CommissionRate, commissionType, nil
}
