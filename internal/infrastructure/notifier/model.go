package notifier

import "time"

type CallbackPayload struct {
	TransactionID string    `json:"transaction_id"`
	InvoiceNumber string    `json:"invoice_number"`
	ExternalID    string    `json:"external_id"`
	Status        string    `json:"status"`
	Amount        int64     `json:"amount"`
	ProductID     string    `json:"product_id"`
	PaidAt        time.Time `json:"paid_at"`
}
