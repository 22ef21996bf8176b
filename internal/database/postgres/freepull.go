package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/repository"
)

// FreePullRepository implements the daily free pull repository for PostgreSQL
type FreePullRepository struct {
	db *pgxpool.Pool
}

// NewFreePullRepository creates a new FreePullRepository
func NewFreePullRepository(db *pgxpool.Pool) repository.FreePull {
	return &FreePullRepository{db: db}
}

// LastPull returns when the user claimed their pull on the given day, or nil
// if the day is still open.
func (r *FreePullRepository) LastPull(ctx context.Context, userID string, day time.Time) (*time.Time, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id %s", domain.ErrInvalidInput, userID)
	}

	query := `SELECT created_at FROM daily_free_pulls WHERE user_id = $1 AND pull_date = $2`

	var claimedAt time.Time
	err = r.db.QueryRow(ctx, query, user, day).Scan(&claimedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetFreePull, err)
	}
	return &claimedAt, nil
}

// GrantPull records the day's pull and stores the pulled card in one
// transaction. The unique constraint on (user_id, pull_date) is the
// arbiter: when the insert is a no-op the day is taken and the card is
// discarded.
func (r *FreePullRepository) GrantPull(ctx context.Context, userID string, day time.Time, card domain.Card) (bool, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return false, fmt.Errorf("%w: invalid user id %s", domain.ErrInvalidInput, userID)
	}
	cardID, err := uuid.Parse(card.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidCardID, card.ID)
	}

	var rewardsJSON []byte
	if card.Rewards != nil {
		rewardsJSON, err = json.Marshal(card.Rewards)
		if err != nil {
			return false, fmt.Errorf("%s: %w", ErrMsgFailedToCodecRewards, err)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The card goes in first so the pull row's foreign key resolves. A lost
	// race on (user_id, pull_date) rolls the card back with the transaction.
	_, err = tx.Exec(ctx, `
		INSERT INTO cards (card_id, owner_id, brand, model, product_image, product_value,
			rarity_score, band, is_golden, serial_number, state, rewards, seen, pulled_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11, $12, FALSE, $13)
	`, cardID, user, card.Brand, card.Model, card.ProductImage, card.ProductValue,
		card.RarityScore, card.Band, card.IsGolden, card.SerialNumber, card.State, rewardsJSON, card.PulledAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToInsertCard, err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO daily_free_pulls (user_id, pull_date, card_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, pull_date) DO NOTHING
	`, user, day, cardID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToRecordFreePull, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return true, nil
}
