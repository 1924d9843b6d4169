package domain

import (
	"context"
	"time"
)

// ProvisionLocker serialises channel provisioning per transaction so two
// concurrent requests cannot both observe "no channel yet" and create
// duplicate gateway resources.
type ProvisionLocker interface {
	// Acquire takes the advisory lock for the transaction, returning a
	// release func. ErrProvisionLocked when another holder is active.
	Acquire(ctx context.Context, transactionID string, ttl time.Duration) (release func(), err error)
}
