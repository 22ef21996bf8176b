package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantail/collectroom/internal/domain"
)

func TestSession_RemainingRoundsToMinutes(t *testing.T) {
	now := time.Now()
	s := &Session{state: SessionGenerating}
	assert.Zero(t, s.Remaining(now))

	s.succeed(domain.TransferGrant{ExpiresAt: now.Add(90*time.Minute + 10*time.Second)}, "link")
	assert.Equal(t, 90*time.Minute, s.Remaining(now))

	assert.Zero(t, s.Remaining(now.Add(2*time.Hour)))
}

func TestSession_GenerateOnlyFromConfirmOrError(t *testing.T) {
	s := &Session{state: SessionConfirm}
	require.NoError(t, s.beginGenerating())
	assert.ErrorIs(t, s.beginGenerating(), ErrBadSessionMove)

	s.fail("boom")
	assert.Equal(t, SessionError, s.State())
	require.NoError(t, s.beginGenerating())
	assert.Empty(t, s.Failure())

	s.succeed(domain.TransferGrant{}, "link")
	assert.ErrorIs(t, s.beginGenerating(), ErrBadSessionMove)

	s.Close()
	assert.ErrorIs(t, s.beginGenerating(), ErrBadSessionMove)
}
