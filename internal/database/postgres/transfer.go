package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantail/collectroom/internal/domain"
)

// TransferRepository implements the transfer grant repository for PostgreSQL.
// It embeds the collection repository so callers holding it can resolve the
// cards a grant points at.
type TransferRepository struct {
	*CollectionRepository
	db *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository
func NewTransferRepository(db *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{
		CollectionRepository: &CollectionRepository{db: db},
		db:                   db,
	}
}

const transferColumns = `transfer_id, card_id, from_user_id, to_user_id, mode, claim_token,
		status, claimed_by, created_at, expires_at`

func scanTransfer(row pgx.Row) (*domain.TransferGrant, error) {
	var (
		id, cardID, fromUserID uuid.UUID
		toUserID, claimedBy    pgtype.UUID
		grant                  domain.TransferGrant
	)

	err := row.Scan(&id, &cardID, &fromUserID, &toUserID, &grant.Mode, &grant.ClaimToken,
		&grant.Status, &claimedBy, &grant.CreatedAt, &grant.ExpiresAt)
	if err != nil {
		return nil, err
	}

	grant.ID = id.String()
	grant.CardID = cardID.String()
	grant.FromUserID = fromUserID.String()
	if toUserID.Valid {
		grant.ToUserID = uuid.UUID(toUserID.Bytes).String()
	}
	if claimedBy.Valid {
		grant.ClaimedByID = uuid.UUID(claimedBy.Bytes).String()
	}
	return &grant, nil
}

// CreateTransfer inserts a new pending grant.
func (r *TransferRepository) CreateTransfer(ctx context.Context, grant domain.TransferGrant) error {
	id, err := uuid.Parse(grant.ID)
	if err != nil {
		return fmt.Errorf("invalid transfer id: %w", err)
	}
	cardID, err := uuid.Parse(grant.CardID)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCardID, grant.CardID)
	}
	fromUserID, err := uuid.Parse(grant.FromUserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	var toUserID *uuid.UUID
	if grant.ToUserID != "" {
		parsed, err := uuid.Parse(grant.ToUserID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		toUserID = &parsed
	}

	query := `
		INSERT INTO transfers (transfer_id, card_id, from_user_id, to_user_id, mode, claim_token, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.Exec(ctx, query, id, cardID, fromUserID, toUserID, grant.Mode, grant.ClaimToken,
		grant.Status, grant.CreatedAt, grant.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeForeignKeyViolation {
			return domain.ErrCardNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertTransfer, err)
	}
	return nil
}

// GetTransferByToken retrieves a grant by its claim token. Returns nil
// without error when absent.
func (r *TransferRepository) GetTransferByToken(ctx context.Context, token string) (*domain.TransferGrant, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE claim_token = $1`

	grant, err := scanTransfer(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransfer, err)
	}
	return grant, nil
}

// GetTransferDetails retrieves what a claim page shows: the grant joined
// with the card it would hand over. Returns nil without error when absent.
func (r *TransferRepository) GetTransferDetails(ctx context.Context, token string) (*domain.TransferDetails, error) {
	query := `
		SELECT t.transfer_id, t.from_user_id, t.mode, t.status, t.expires_at,
			c.card_id, c.brand, c.model, c.product_image, c.product_value,
			c.band, c.serial_number, c.is_golden
		FROM transfers t
		JOIN cards c ON c.card_id = t.card_id
		WHERE t.claim_token = $1
	`

	var (
		id, fromUserID, cardID uuid.UUID
		productImage, serial   pgtype.Text
		details                domain.TransferDetails
	)

	err := r.db.QueryRow(ctx, query, token).Scan(&id, &fromUserID, &details.Mode, &details.Status,
		&details.ExpiresAt, &cardID, &details.Card.Brand, &details.Card.Model, &productImage,
		&details.Card.ProductValue, &details.Card.Band, &serial, &details.Card.IsGolden)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTransfer, err)
	}

	details.ID = id.String()
	details.FromUserID = fromUserID.String()
	details.Card.CardID = cardID.String()
	if productImage.Valid {
		details.Card.ProductImage = productImage.String
	}
	if serial.Valid {
		details.Card.SerialNumber = serial.String
	}
	return &details, nil
}

// ClaimTransfer atomically claims a pending, unexpired grant and moves card
// custody: the grant's card goes to the claimant, and for swaps the offered
// card goes back to the originator.
func (r *TransferRepository) ClaimTransfer(ctx context.Context, transferID, claimantID, offeredCardID string) (*domain.TransferGrant, error) {
	id, err := uuid.Parse(transferID)
	if err != nil {
		return nil, fmt.Errorf("invalid transfer id: %w", err)
	}
	claimant, err := uuid.Parse(claimantID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	var offered *uuid.UUID
	if offeredCardID != "" {
		parsed, err := uuid.Parse(offeredCardID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCardID, offeredCardID)
		}
		offered = &parsed
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The status predicate makes the claim first-wins: a concurrent claim,
	// cancel or expiry leaves nothing for this update to match. The
	// to_user_id predicate keeps an addressed grant claimable only by its
	// intended recipient.
	query := `
		UPDATE transfers
		SET status = 'claimed', claimed_by = $2, to_user_id = $2, offered_card_id = $3
		WHERE transfer_id = $1 AND status = 'pending' AND expires_at > NOW()
			AND (to_user_id IS NULL OR to_user_id = $2)
		RETURNING ` + transferColumns

	grant, err := scanTransfer(tx.QueryRow(ctx, query, id, claimant, offered))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.diagnoseTransfer(ctx, tx, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimTransfer, err)
	}

	cardID, err := uuid.Parse(grant.CardID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCardID, grant.CardID)
	}
	if _, err := tx.Exec(ctx, `UPDATE cards SET owner_id = $2, state = 'owned' WHERE card_id = $1`, cardID, claimant); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimTransfer, err)
	}

	if offered != nil {
		fromUserID, err := uuid.Parse(grant.FromUserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user id: %w", err)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE cards SET owner_id = $2, state = 'owned' WHERE card_id = $1 AND owner_id = $3 AND state IN ('owned', 'won')`,
			offered, fromUserID, claimant)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimTransfer, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrCardNotOwned
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return grant, nil
}

// CancelTransfer revokes a pending grant. Only the originator may cancel.
func (r *TransferRepository) CancelTransfer(ctx context.Context, transferID, userID string) (*domain.TransferGrant, error) {
	id, err := uuid.Parse(transferID)
	if err != nil {
		return nil, fmt.Errorf("invalid transfer id: %w", err)
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	query := `
		UPDATE transfers
		SET status = 'cancelled'
		WHERE transfer_id = $1 AND from_user_id = $2 AND status = 'pending'
		RETURNING ` + transferColumns

	grant, err := scanTransfer(r.db.QueryRow(ctx, query, id, user))
	if err == nil {
		return grant, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCancelTransfer, err)
	}

	// Nothing matched: work out why for a precise error.
	var fromUserID uuid.UUID
	var status domain.TransferStatus
	err = r.db.QueryRow(ctx, `SELECT from_user_id, status FROM transfers WHERE transfer_id = $1`, id).
		Scan(&fromUserID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCancelTransfer, err)
	}
	if fromUserID != user {
		return nil, domain.ErrNotOriginator
	}
	return nil, statusError(status)
}

// ListPendingTransfers returns the user's outstanding grants, newest first.
func (r *TransferRepository) ListPendingTransfers(ctx context.Context, userID string) ([]domain.TransferGrant, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	query := `SELECT ` + transferColumns + ` FROM transfers
		WHERE from_user_id = $1 AND status = 'pending' ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTransfers, err)
	}
	defer rows.Close()

	var grants []domain.TransferGrant
	for rows.Next() {
		grant, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanTransfer, err)
		}
		grants = append(grants, *grant)
	}
	return grants, rows.Err()
}

// ExpireDue marks all overdue pending grants expired and returns them.
func (r *TransferRepository) ExpireDue(ctx context.Context, now time.Time) ([]domain.TransferGrant, error) {
	query := `
		UPDATE transfers
		SET status = 'expired'
		WHERE status = 'pending' AND expires_at <= $1
		RETURNING ` + transferColumns

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToExpireTransfers, err)
	}
	defer rows.Close()

	var expired []domain.TransferGrant
	for rows.Next() {
		grant, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanTransfer, err)
		}
		expired = append(expired, *grant)
	}
	return expired, rows.Err()
}

// diagnoseTransfer maps a failed guarded claim to the precise domain error.
func (r *TransferRepository) diagnoseTransfer(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var status domain.TransferStatus
	var expiresAt time.Time
	err := tx.QueryRow(ctx, `SELECT status, expires_at FROM transfers WHERE transfer_id = $1`, id).
		Scan(&status, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTransferNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToClaimTransfer, err)
	}
	if status == domain.TransferPending && expiresAt.After(time.Now()) {
		// Pending and alive, so the recipient predicate is what failed. An
		// addressed grant does not exist as far as other users can tell.
		return domain.ErrTransferNotFound
	}
	return statusError(status)
}

func statusError(status domain.TransferStatus) error {
	switch status {
	case domain.TransferClaimed:
		return domain.ErrTransferClaimed
	case domain.TransferCancelled:
		return domain.ErrTransferCancelled
	default:
		// Still pending means the expiry predicate is what failed.
		return domain.ErrTransferExpired
	}
}
