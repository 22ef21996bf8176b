package repository

import (
	"context"
	"time"

	"github.com/vantail/collectroom/internal/domain"
)

// Transfer defines the interface for transfer grant persistence. Claim,
// cancel and expire mutate a grant only while it is still pending; the
// implementation enforces that atomically.
type Transfer interface {
	CreateTransfer(ctx context.Context, grant domain.TransferGrant) error
	GetTransferByToken(ctx context.Context, token string) (*domain.TransferGrant, error)
	GetTransferDetails(ctx context.Context, token string) (*domain.TransferDetails, error)
	ClaimTransfer(ctx context.Context, transferID, claimantID, offeredCardID string) (*domain.TransferGrant, error)
	CancelTransfer(ctx context.Context, transferID, userID string) (*domain.TransferGrant, error)
	ListPendingTransfers(ctx context.Context, userID string) ([]domain.TransferGrant, error)
	ExpireDue(ctx context.Context, now time.Time) ([]domain.TransferGrant, error)
}
