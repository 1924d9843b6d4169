package xendit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Client talks to the Xendit REST API. Transport-level failures come back
// as domain.ErrGatewayUnreachable so callers can tell an outage apart from
// a rejected request.
type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type paymentRequestBody struct {
	ReferenceID   string        `json:"reference_id"`
	Currency      string        `json:"currency"`
	Amount        int64         `json:"amount"`
	PaymentMethod paymentMethod `json:"payment_method"`
}

type paymentMethod struct {
	Type           string         `json:"type"`
	Reusability    string         `json:"reusability"`
	VirtualAccount virtualAccount `json:"virtual_account"`
}

type virtualAccount struct {
	ChannelCode       string            `json:"channel_code"`
	ChannelProperties channelProperties `json:"channel_properties"`
}

type channelProperties struct {
	CustomerName string `json:"customer_name"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type paymentRequestResponse struct {
	ID            string `json:"id"`
	ReferenceID   string `json:"reference_id"`
	Status        string `json:"status"`
	PaymentMethod struct {
		VirtualAccount struct {
			ChannelCode       string `json:"channel_code"`
			ChannelProperties struct {
				VirtualAccountNumber string `json:"virtual_account_number"`
				ExpiresAt            string `json:"expires_at"`
			} `json:"channel_properties"`
		} `json:"virtual_account"`
	} `json:"payment_method"`
	Actions []struct {
		URL string `json:"url"`
	} `json:"actions"`
}

func (c *Client) CreateVirtualAccount(ctx context.Context, req domain.VirtualAccountRequest) (*domain.VirtualAccountResult, error) {
	reusability := "MULTIPLE_USE"
	if req.SingleUse {
		reusability = "ONE_TIME_USE"
	}

	body := paymentRequestBody{
		ReferenceID: req.ExternalID,
		Currency:    "IDR",
		Amount:      req.Amount,
		PaymentMethod: paymentMethod{
			Type:        "VIRTUAL_ACCOUNT",
			Reusability: reusability,
			VirtualAccount: virtualAccount{
				ChannelCode: NormalizeChannelCode(req.BankCode),
				ChannelProperties: channelProperties{
					CustomerName: req.CustomerName,
					ExpiresAt:    formatTime(req.ExpiresAt),
				},
			},
		},
	}

	var resp paymentRequestResponse
	if err := c.post(ctx, "/payment_requests", body, &resp); err != nil {
		return nil, err
	}

	result := &domain.VirtualAccountResult{
		ReferenceID:   resp.ID,
		ExternalID:    resp.ReferenceID,
		BankCode:      req.BankCode,
		AccountNumber: resp.PaymentMethod.VirtualAccount.ChannelProperties.VirtualAccountNumber,
	}
	if expires := resp.PaymentMethod.VirtualAccount.ChannelProperties.ExpiresAt; expires != "" {
		if parsed, err := time.Parse(time.RFC3339, expires); err == nil {
			result.ExpiresAt = &parsed
		}
	}
	// Some channels answer with a checkout URL instead of a number.
	if result.AccountNumber == "" && len(resp.Actions) > 0 {
		result.RedirectURL = resp.Actions[0].URL
	}

	return result, nil
}

type invoiceBody struct {
	ExternalID      string   `json:"external_id"`
	Amount          int64    `json:"amount"`
	PayerEmail      string   `json:"payer_email,omitempty"`
	Description     string   `json:"description,omitempty"`
	InvoiceDuration int64    `json:"invoice_duration,omitempty"`
	PaymentMethods  []string `json:"payment_methods,omitempty"`
}

type invoiceResponse struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoice_url"`
	ExpiryDate string `json:"expiry_date"`
}

func (c *Client) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.InvoiceResult, error) {
	methods := make([]string, 0, len(req.AllowedMethods))
	for _, m := range req.AllowedMethods {
		methods = append(methods, NormalizeChannelCode(m))
	}

	body := invoiceBody{
		ExternalID:      req.ExternalID,
		Amount:          req.Amount,
		PayerEmail:      req.PayerEmail,
		Description:     req.Description,
		InvoiceDuration: int64(req.Duration.Seconds()),
		PaymentMethods:  methods,
	}

	var resp invoiceResponse
	if err := c.post(ctx, "/v2/invoices", body, &resp); err != nil {
		return nil, err
	}

	result := &domain.InvoiceResult{
		ReferenceID: resp.ID,
		InvoiceURL:  resp.InvoiceURL,
	}
	if resp.ExpiryDate != "" {
		if parsed, err := time.Parse(time.RFC3339, resp.ExpiryDate); err == nil {
			result.ExpiresAt = &parsed
		}
	}

	return result, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.client.Do(req)
	if err != nil {
		// Do only fails on transport problems: DNS, refused connections,
		// timeouts. All of them mean the gateway is unreachable.
		return fmt.Errorf("xendit %s: %v: %w", path, err, domain.ErrGatewayUnreachable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("xendit %s returned status %d: %w", path, resp.StatusCode, domain.ErrGatewayUnreachable)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("xendit %s rejected request: status %d: %s", path, resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse xendit response: %w", err)
	}
	return nil
}

// NormalizeChannelCode strips the country prefix some callers still send,
// "ID_BCA" and "BCA" both mean BCA.
func NormalizeChannelCode(code string) string {
	return strings.TrimPrefix(strings.ToUpper(code), "ID_")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
