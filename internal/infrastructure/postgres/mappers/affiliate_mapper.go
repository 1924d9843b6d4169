package mappers

import (
	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/models"
)

func ToDomainAffiliateProfile(model *models.AffiliateProfileModel) *domain.AffiliateProfile {
	return &domain.AffiliateProfile{
		ID:             model.ID,
		UserID:         model.UserID,
		Code:           model.Code,
		CommissionRate: model.CommissionRate,
		Active:         model.Active,
		CreatedAt:      model.CreatedAt,
	}
}

func ToDomainConversion(model *models.AffiliateConversionModel) *domain.AffiliateConversion {
	return &domain.AffiliateConversion{
		ID:               model.ID,
		AffiliateID:      model.AffiliateID,
		TransactionID:    model.TransactionID,
		CommissionAmount: model.CommissionAmount,
		CommissionRate:   model.CommissionRate,
		CommissionType:   model.CommissionType,
		PaidOut:          model.PaidOut,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMConversion(conv *domain.AffiliateConversion) *models.AffiliateConversionModel {
	return &models.AffiliateConversionModel{
		ID:               conv.ID,
		AffiliateID:      conv.AffiliateID,
		TransactionID:    conv.TransactionID,
		CommissionAmount: conv.CommissionAmount,
		CommissionRate:   conv.CommissionRate,
		CommissionType:   conv.CommissionType,
		PaidOut:          conv.PaidOut,
		CreatedAt:        conv.CreatedAt,
		UpdatedAt:        conv.UpdatedAt,
	}
}

func ToDomainMembership(model *models.MembershipModel) *domain.Membership {
	return &domain.Membership{
		ID:             model.ID,
		Name:           model.Name,
		Slug:           model.Slug,
		Price:          model.Price,
		CommissionRate: model.CommissionRate,
		CommissionType: model.CommissionType,
	}
}
