package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is the PostgreSQL error code for foreign key violations
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Card Operations
const (
	ErrMsgFailedToInsertCard   = "failed to insert card"
	ErrMsgFailedToGetCard      = "failed to get card"
	ErrMsgFailedToFetchCards   = "failed to fetch cards"
	ErrMsgFailedToMarkSeen     = "failed to mark card seen"
	ErrMsgFailedToScanCard     = "failed to scan card row"
	ErrMsgFailedToCodecRewards = "failed to encode card rewards"
)

// Error Messages - Free Pull Operations
const (
	ErrMsgFailedToGetFreePull    = "failed to get free pull record"
	ErrMsgFailedToRecordFreePull = "failed to record free pull"
)

// Error Messages - Transfer Operations
const (
	ErrMsgFailedToInsertTransfer  = "failed to insert transfer"
	ErrMsgFailedToGetTransfer     = "failed to get transfer"
	ErrMsgFailedToListTransfers   = "failed to list transfers"
	ErrMsgFailedToClaimTransfer   = "failed to claim transfer"
	ErrMsgFailedToCancelTransfer  = "failed to cancel transfer"
	ErrMsgFailedToExpireTransfers = "failed to expire transfers"
	ErrMsgFailedToScanTransfer    = "failed to scan transfer row"
)
