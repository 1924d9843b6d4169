package repository

import (
	"context"
	"errors"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/mappers"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAffiliateDirectory struct {
	DB *gorm.DB
}

func NewDefaultAffiliateDirectory(db *gorm.DB) *DefaultAffiliateDirectory {
	return &DefaultAffiliateDirectory{DB: db}
}

func (r *DefaultAffiliateDirectory) ResolveProfile(ctx context.Context, userID string) (*domain.AffiliateProfile, error) {
	var profile models.AffiliateProfileModel
	if err := r.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAffiliateNotFound
		}
		return nil, err
	}

	return mappers.ToDomainAffiliateProfile(&profile), nil
}
