package reveal

// Log messages
const (
	LogMsgCardEnqueued     = "Card enqueued for reveal"
	LogMsgCardSkipped      = "Skipping card with malformed ID"
	LogMsgQueueReplaced    = "Reveal queue replaced from server state"
	LogMsgCardOpened       = "Card pulled from reveal queue"
	LogMsgCardRevealed     = "Card revealed"
	LogMsgCardFiled        = "Card filed to collection"
	LogMsgMarkSeenFailed   = "Failed to mark card as seen, keeping local state"
	LogMsgResyncFailed     = "Failed to refresh collection after filing"
	LogMsgFiledCardMissing = "Filed card absent from refreshed collection"
	LogMsgDeliveryIgnored  = "Ignoring delivery for another user"
	LogMsgSyncedUnrevealed = "Synced unrevealed cards from server"
	LogMsgScreenTransition = "Unboxing screen transition"
)

// Warning messages surfaced on FileResult
const (
	WarnMsgFiledCardNotVisible = "card added to your collection, refresh if it is not visible yet"
)

// Error messages
const (
	ErrMsgQueueEmpty    = "no cards waiting to be revealed"
	ErrMsgNoCurrentCard = "no card is currently being revealed"
	ErrMsgBadTransition = "invalid unboxing screen transition"
)
