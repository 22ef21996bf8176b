package reveal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_FullCycle(t *testing.T) {
	s := NewScreen()
	assert.Equal(t, ScreenSealed, s.State())

	require.NoError(t, s.Begin())
	assert.Equal(t, ScreenEmerging, s.State())

	require.NoError(t, s.Reveal(false))
	assert.Equal(t, ScreenRevealed, s.State())

	require.NoError(t, s.File())
	assert.Equal(t, ScreenCollection, s.State())

	// Next pull starts straight from the collection view.
	require.NoError(t, s.Begin())
	assert.Equal(t, ScreenEmerging, s.State())
}

func TestScreen_GoldenPath(t *testing.T) {
	s := NewScreen()
	require.NoError(t, s.Begin())
	require.NoError(t, s.Reveal(true))
	assert.Equal(t, ScreenGolden, s.State())

	require.NoError(t, s.File())
	assert.Equal(t, ScreenCollection, s.State())
}

func TestScreen_RejectsSkippedPhases(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Screen) error
	}{
		{"reveal while sealed", func(s *Screen) error { return s.Reveal(false) }},
		{"file while sealed", func(s *Screen) error { return s.File() }},
		{"begin while emerging", func(s *Screen) error {
			if err := s.Begin(); err != nil {
				return err
			}
			return s.Begin()
		}},
		{"file while emerging", func(s *Screen) error {
			if err := s.Begin(); err != nil {
				return err
			}
			return s.File()
		}},
		{"reveal twice", func(s *Screen) error {
			if err := s.Begin(); err != nil {
				return err
			}
			if err := s.Reveal(false); err != nil {
				return err
			}
			return s.Reveal(false)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(NewScreen())
			assert.ErrorIs(t, err, ErrBadTransition)
		})
	}
}

func TestScreen_ResetFromAnyState(t *testing.T) {
	s := NewScreen()
	require.NoError(t, s.Begin())
	require.NoError(t, s.Reveal(true))

	s.Reset()
	assert.Equal(t, ScreenSealed, s.State())
	require.NoError(t, s.Begin())
}
