package mappers

import (
	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/eksporyuk/payment-core-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:            model.ID,
		InvoiceNumber: model.InvoiceNumber,
		ExternalID:    model.ExternalID,
		UserID:        model.UserID,
		Type:          model.Type,
		Status:        model.Status,
		AmountInfo: domain.AmountInfo{
			Amount:         model.Amount,
			OriginalAmount: model.OriginalAmount,
			DiscountAmount: model.DiscountAmount,
		},
		Customer: domain.CustomerInfo{
			Name:  model.CustomerName,
			Email: model.CustomerEmail,
			Phone: model.CustomerPhone,
		},
		Description:     model.Description,
		ProductID:       model.ProductID,
		AffiliateUserID: model.AffiliateUserID,
		PaymentProvider: model.PaymentProvider,
		PaymentMethod:   model.PaymentMethod,
		PaymentURL:      model.PaymentURL,
		Channel: domain.ChannelMeta{
			BankCode:      model.BankCode,
			BankName:      model.BankName,
			AccountNumber: model.AccountNumber,
			GatewayRef:    model.GatewayRef,
			Placeholder:   model.Placeholder,
			ExpiresAt:     model.ChannelExpiresAt,
		},
		PaidAt:    model.PaidAt,
		ExpiredAt: model.ExpiredAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:               tx.ID,
		InvoiceNumber:    tx.InvoiceNumber,
		ExternalID:       tx.ExternalID,
		UserID:           tx.UserID,
		Type:             tx.Type,
		Status:           tx.Status,
		Amount:           tx.AmountInfo.Amount,
		OriginalAmount:   tx.AmountInfo.OriginalAmount,
		DiscountAmount:   tx.AmountInfo.DiscountAmount,
		CustomerName:     tx.Customer.Name,
		CustomerEmail:    tx.Customer.Email,
		CustomerPhone:    tx.Customer.Phone,
		Description:      tx.Description,
		ProductID:        tx.ProductID,
		AffiliateUserID:  tx.AffiliateUserID,
		PaymentProvider:  tx.PaymentProvider,
		PaymentMethod:    tx.PaymentMethod,
		PaymentURL:       tx.PaymentURL,
		BankCode:         tx.Channel.BankCode,
		BankName:         tx.Channel.BankName,
		AccountNumber:    tx.Channel.AccountNumber,
		GatewayRef:       tx.Channel.GatewayRef,
		Placeholder:      tx.Channel.Placeholder,
		ChannelExpiresAt: tx.Channel.ExpiresAt,
		PaidAt:           tx.PaidAt,
		ExpiredAt:        tx.ExpiredAt,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}
}
