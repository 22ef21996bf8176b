package config

import "time"

// Service identity defaults
const (
	DefaultServiceName  = "collectroom"
	DefaultClaimBaseURL = "https://collectroom.app/claim"
	DefaultLogDir       = "logs"
)

// Transfer grant timing defaults
const (
	// DefaultTransferTTL is how long a grant stays claimable after creation.
	DefaultTransferTTL = 48 * time.Hour

	// DefaultTransferSweepInterval is how often the expiry sweeper runs.
	DefaultTransferSweepInterval = time.Minute
)

// Database pool defaults
const (
	DefaultDBMaxConnections = 10
	DefaultDBMaxIdleTime    = 5 * time.Minute
	DefaultDBMaxLifetime    = 30 * time.Minute
)
