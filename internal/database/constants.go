package database

// MinWarmConnections is how many connections the pool keeps open even when
// idle, so the first request after a quiet spell does not pay a dial.
const MinWarmConnections = 2

// Error messages for pool setup
const (
	ErrMsgBadConnString    = "invalid database connection string"
	ErrMsgPoolCreateFailed = "failed to create connection pool"
	ErrMsgPingFailed       = "database unreachable"
)

// Log messages
const (
	LogMsgDatabaseReady = "Database connection established"
)
