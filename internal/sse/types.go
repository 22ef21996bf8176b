package sse

import "github.com/vantail/collectroom/internal/domain"

// ConnectedPayload is the payload of the first event on a new connection
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Filters  []string `json:"filters,omitempty"`
}

// CardNoticePayload is the SSE payload for card lifecycle events.
// BandLabel is the display form of Band, ready for toast text.
type CardNoticePayload struct {
	UserID    string            `json:"user_id"`
	CardID    string            `json:"card_id"`
	Band      domain.RarityBand `json:"band,omitempty"`
	BandLabel string            `json:"band_label,omitempty"`
	IsGolden  bool              `json:"is_golden,omitempty"`
}

// TransferNoticePayload is the SSE payload for transfer lifecycle events.
// It never carries the claim token; that credential only travels to the
// originator who created the grant.
type TransferNoticePayload struct {
	TransferID string              `json:"transfer_id"`
	FromUserID string              `json:"from_user_id"`
	ToUserID   string              `json:"to_user_id,omitempty"`
	Mode       domain.TransferMode `json:"mode"`
}
