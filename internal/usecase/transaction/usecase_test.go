package transaction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxRepo struct {
	transactions map[string]*domain.Transaction
	markPaid     []string
	expiredCount int64
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{transactions: map[string]*domain.Transaction{}}
}

func (r *fakeTxRepo) Create(_ context.Context, tx *domain.Transaction) error {
	r.transactions[tx.ID] = tx
	return nil
}

func (r *fakeTxRepo) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

func (r *fakeTxRepo) GetByExternalID(_ context.Context, externalID string) (*domain.Transaction, error) {
	for _, tx := range r.transactions {
		if tx.ExternalID == externalID {
			return tx, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *fakeTxRepo) FindByIDs(_ context.Context, _ []string) ([]*domain.Transaction, error) {
	return nil, nil
}

func (r *fakeTxRepo) FindSettledWithAffiliate(_ context.Context, _, _ time.Time, _ int) ([]*domain.Transaction, error) {
	return nil, nil
}

func (r *fakeTxRepo) UpdateChannel(_ context.Context, _ string, _ domain.ChannelPatch) error {
	return nil
}

func (r *fakeTxRepo) UpdateStatus(_ context.Context, id string, status domain.TransactionStatus) error {
	r.transactions[id].Status = status
	return nil
}

func (r *fakeTxRepo) MarkPaidByExternalID(_ context.Context, externalID string, paidAt time.Time) error {
	for _, tx := range r.transactions {
		if tx.ExternalID == externalID && tx.Status == domain.StatusPending {
			tx.Status = domain.StatusPaid
			tx.PaidAt = &paidAt
			r.markPaid = append(r.markPaid, externalID)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (r *fakeTxRepo) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, tx := range r.transactions {
		if tx.Status == domain.StatusPending && tx.ExpiredAt != nil && tx.ExpiredAt.Before(now) {
			tx.Status = domain.StatusExpired
			count++
		}
	}
	r.expiredCount = count
	return count, nil
}

type fakeCatalog struct {
	rates map[string]float64
}

func (c *fakeCatalog) GetByID(_ context.Context, id string) (*domain.Membership, error) {
	rate, ok := c.rates[id]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	return &domain.Membership{ID: id, CommissionRate: rate}, nil
}

func (c *fakeCatalog) GetCommissionRate(_ context.Context, id string) (float64, domain.CommissionType, error) {
	rate, ok := c.rates[id]
	if !ok {
		return 0, domain.CommissionPercentage, domain.ErrMembershipNotFound
	}
	return rate, domain.CommissionPercentage, nil
}

func newUsecase() (*DefaultTransactionUsecase, *fakeTxRepo) {
	repo := newFakeTxRepo()
	catalog := &fakeCatalog{rates: map[string]float64{"plan-30": 30}}
	return NewDefaultTransactionUsecase(repo, catalog, nil), repo
}

func TestCreateCheckout(t *testing.T) {
	uc, repo := newUsecase()

	tx, err := uc.CreateCheckout(context.Background(), CheckoutInput{
		UserID:          "user-1",
		Type:            domain.TypeMembership,
		ProductID:       "plan-30",
		Amount:          900_000,
		DiscountAmount:  100_000,
		BankCode:        "BCA",
		BankName:        "Bank Central Asia",
		Customer:        domain.CustomerInfo{Name: "Budi", Email: "budi@example.com"},
		AffiliateUserID: "user-aff",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, tx.Status)
	assert.True(t, strings.HasPrefix(tx.InvoiceNumber, "INV-"))
	assert.True(t, strings.HasPrefix(tx.ExternalID, "TXN-"))
	assert.Equal(t, int64(900_000), tx.AmountInfo.Amount)
	assert.Equal(t, int64(1_000_000), tx.AmountInfo.OriginalAmount, "original = amount + discount")
	require.NotNil(t, tx.AffiliateUserID)
	assert.Equal(t, "user-aff", *tx.AffiliateUserID)
	assert.Empty(t, tx.Channel.AccountNumber, "no channel before first view")
	require.NotNil(t, tx.ExpiredAt)
	assert.True(t, tx.ExpiredAt.After(time.Now()))

	stored, err := repo.GetByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.InvoiceNumber, stored.InvoiceNumber)
}

func TestCreateCheckoutRejectsBadAmounts(t *testing.T) {
	uc, _ := newUsecase()

	_, err := uc.CreateCheckout(context.Background(), CheckoutInput{Amount: 0})
	assert.Error(t, err)

	_, err = uc.CreateCheckout(context.Background(), CheckoutInput{Amount: 100, DiscountAmount: -1})
	assert.Error(t, err)
}

func TestSettleByExternalIDOnce(t *testing.T) {
	uc, repo := newUsecase()
	tx, err := uc.CreateCheckout(context.Background(), CheckoutInput{
		UserID: "user-1", Type: domain.TypeMembership, ProductID: "plan-30", Amount: 100_000,
	})
	require.NoError(t, err)

	require.NoError(t, uc.SettleByExternalID(context.Background(), tx.ExternalID, time.Now()))
	assert.Equal(t, domain.StatusPaid, repo.transactions[tx.ID].Status)

	// Replayed webhook finds no pending row.
	err = uc.SettleByExternalID(context.Background(), tx.ExternalID, time.Now())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestPreviewCommission(t *testing.T) {
	uc, _ := newUsecase()

	preview, err := uc.PreviewCommission(context.Background(), "plan-30", 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), preview.AffiliateShare)
	assert.Equal(t, int64(700_000), preview.Remainder)
	assert.Equal(t, float64(30), preview.CommissionRate)

	_, err = uc.PreviewCommission(context.Background(), "plan-missing", 1_000_000)
	assert.ErrorIs(t, err, domain.ErrMembershipNotFound)
}

func TestSweepExpired(t *testing.T) {
	uc, repo := newUsecase()

	past := time.Now().Add(-time.Hour)
	repo.transactions["old"] = &domain.Transaction{
		ID: "old", Status: domain.StatusPending, ExpiredAt: &past,
	}
	future := time.Now().Add(time.Hour)
	repo.transactions["fresh"] = &domain.Transaction{
		ID: "fresh", Status: domain.StatusPending, ExpiredAt: &future,
	}

	count, err := uc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, domain.StatusExpired, repo.transactions["old"].Status)
	assert.Equal(t, domain.StatusPending, repo.transactions["fresh"].Status)
}
