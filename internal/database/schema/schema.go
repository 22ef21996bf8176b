package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Collection Schema

-- 1. Core User Information
CREATE TABLE IF NOT EXISTS users (
    user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(50) UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- 2. Cards
-- seen tracks whether the owner has been through the reveal flow; an
-- unrevealed card is one delivered but not yet seen.
CREATE TABLE IF NOT EXISTS cards (
    card_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    brand VARCHAR(100) NOT NULL,
    model VARCHAR(200) NOT NULL,
    product_image TEXT,
    product_value DOUBLE PRECISION NOT NULL DEFAULT 0,
    rarity_score INTEGER NOT NULL,
    band VARCHAR(10) NOT NULL,
    is_golden BOOLEAN NOT NULL DEFAULT FALSE,
    serial_number VARCHAR(50),
    state VARCHAR(10) NOT NULL DEFAULT 'owned',
    staked_room_id UUID,
    rewards JSONB,
    seen BOOLEAN NOT NULL DEFAULT FALSE,
    pulled_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards(owner_id);
CREATE INDEX IF NOT EXISTS idx_cards_owner_unseen ON cards(owner_id) WHERE NOT seen;

-- 3. Transfer Grants
-- Addressed solely by claim_token. Status leaves 'pending' exactly once,
-- through claim, cancel or expiry.
CREATE TABLE IF NOT EXISTS transfers (
    transfer_id UUID PRIMARY KEY,
    card_id UUID NOT NULL REFERENCES cards(card_id) ON DELETE CASCADE,
    from_user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    to_user_id UUID,
    mode VARCHAR(10) NOT NULL,
    claim_token VARCHAR(12) UNIQUE NOT NULL,
    status VARCHAR(12) NOT NULL DEFAULT 'pending',
    claimed_by UUID,
    offered_card_id UUID,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transfers_from_user ON transfers(from_user_id);
CREATE INDEX IF NOT EXISTS idx_transfers_pending_expiry ON transfers(expires_at) WHERE status = 'pending';

-- 4. Daily Free Pulls
-- One row per user per UTC calendar day; the unique constraint is the
-- rate limit.
CREATE TABLE IF NOT EXISTS daily_free_pulls (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    pull_date DATE NOT NULL,
    card_id UUID REFERENCES cards(card_id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, pull_date)
);
`
