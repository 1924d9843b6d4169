package domain

import "errors"

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrChannelUnavailable   = errors.New("payment channel unavailable")
	ErrGatewayUnreachable   = errors.New("payment gateway unreachable")
	ErrInconsistentMetadata = errors.New("inconsistent channel metadata")
	ErrDuplicateCommission  = errors.New("commission already recorded for transaction")
	ErrProvisionLocked      = errors.New("provisioning already in progress for transaction")
	ErrAffiliateNotFound    = errors.New("affiliate profile not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrConversionImmutable  = errors.New("conversion already paid out")
)
