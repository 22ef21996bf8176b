package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantail/collectroom/internal/domain"
	"github.com/vantail/collectroom/internal/repository"
)

// CollectionRepository implements the card collection repository for PostgreSQL
type CollectionRepository struct {
	db *pgxpool.Pool
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *pgxpool.Pool) repository.Collection {
	return &CollectionRepository{db: db}
}

const cardColumns = `card_id, owner_id, brand, model, product_image, product_value,
		rarity_score, band, is_golden, serial_number, state, staked_room_id, rewards, pulled_at`

func scanCard(row pgx.Row) (*domain.Card, error) {
	var (
		id, ownerID  uuid.UUID
		card         domain.Card
		productImage pgtype.Text
		serial       pgtype.Text
		stakedRoom   pgtype.UUID
		rewardsJSON  []byte
		pulledAt     time.Time
	)

	err := row.Scan(&id, &ownerID, &card.Brand, &card.Model, &productImage, &card.ProductValue,
		&card.RarityScore, &card.Band, &card.IsGolden, &serial, &card.State, &stakedRoom, &rewardsJSON, &pulledAt)
	if err != nil {
		return nil, err
	}

	card.ID = id.String()
	card.OwnerID = ownerID.String()
	card.PulledAt = pulledAt
	if productImage.Valid {
		card.ProductImage = productImage.String
	}
	if serial.Valid {
		card.SerialNumber = serial.String
	}
	if stakedRoom.Valid {
		card.StakedRoomID = uuid.UUID(stakedRoom.Bytes).String()
	}
	if len(rewardsJSON) > 0 {
		var rewards domain.CardRewards
		if err := json.Unmarshal(rewardsJSON, &rewards); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanCard, err)
		}
		card.Rewards = &rewards
	}

	return &card, nil
}

// GetCard retrieves a card by ID. Returns nil without error when absent.
func (r *CollectionRepository) GetCard(ctx context.Context, cardID string) (*domain.Card, error) {
	id, err := uuid.Parse(cardID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCardID, cardID)
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1`

	card, err := scanCard(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCard, err)
	}
	return card, nil
}

// InsertCard stores a newly delivered card, unseen.
func (r *CollectionRepository) InsertCard(ctx context.Context, card domain.Card) error {
	id, err := uuid.Parse(card.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCardID, card.ID)
	}
	ownerID, err := uuid.Parse(card.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	var rewardsJSON []byte
	if card.Rewards != nil {
		rewardsJSON, err = json.Marshal(card.Rewards)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToCodecRewards, err)
		}
	}

	pulledAt := card.PulledAt
	if pulledAt.IsZero() {
		pulledAt = time.Now()
	}

	query := `
		INSERT INTO cards (card_id, owner_id, brand, model, product_image, product_value,
			rarity_score, band, is_golden, serial_number, state, rewards, seen, pulled_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11, $12, FALSE, $13)
	`

	_, err = r.db.Exec(ctx, query, id, ownerID, card.Brand, card.Model, card.ProductImage,
		card.ProductValue, card.RarityScore, card.Band, card.IsGolden, card.SerialNumber,
		card.State, rewardsJSON, pulledAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertCard, err)
	}
	return nil
}

func (r *CollectionRepository) fetchCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToFetchCards, err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanCard, err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// FetchOwnedCards returns the user's revealed cards, oldest pull first.
func (r *CollectionRepository) FetchOwnedCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = $1 AND seen ORDER BY pulled_at, card_id`
	return r.fetchCards(ctx, query, ownerID)
}

// FetchUnrevealedCards returns the user's delivered but not yet seen cards,
// oldest delivery first.
func (r *CollectionRepository) FetchUnrevealedCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = $1 AND NOT seen ORDER BY pulled_at, card_id`
	return r.fetchCards(ctx, query, ownerID)
}

// MarkCardSeen flags a card as revealed to its owner. Idempotent.
func (r *CollectionRepository) MarkCardSeen(ctx context.Context, cardID string) error {
	id, err := uuid.Parse(cardID)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCardID, cardID)
	}

	tag, err := r.db.Exec(ctx, `UPDATE cards SET seen = TRUE WHERE card_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkSeen, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}
