package commission

import (
	"math"

	"github.com/eksporyuk/payment-core-service/internal/domain"
)

// Calculate returns the affiliate commission for a settled amount at the
// given percentage rate (0-100). Rounded half-up, never negative, never
// above the amount. Pure - reconciliation idempotence depends on that.
func Calculate(amount int64, ratePercent float64) int64 {
	if amount <= 0 || ratePercent <= 0 {
		return 0
	}
	value := int64(math.Round(float64(amount) * ratePercent / 100))
	if value > amount {
		return amount
	}
	return value
}

// CalculateTyped supports the flat-amount commissions some legacy
// products carry: a FLAT rate is a fixed value capped at the amount.
func CalculateTyped(amount int64, rate float64, commissionType domain.CommissionType) int64 {
	if commissionType == domain.CommissionFlat {
		if amount <= 0 || rate <= 0 {
			return 0
		}
		flat := int64(math.Round(rate))
		if flat > amount {
			return amount
		}
		return flat
	}
	return Calculate(amount, rate)
}

// Breakdown is the revenue split preview shown at checkout. Only the
// affiliate share is ever persisted by this service.
type Breakdown struct {
	Total          int64
	AffiliateShare int64
	Remainder      int64
}

func Split(amount int64, ratePercent float64, commissionType domain.CommissionType) Breakdown {
	share := CalculateTyped(amount, ratePercent, commissionType)
	return Breakdown{
		Total:          amount,
		AffiliateShare: share,
		Remainder:      amount - share,
	}
}
