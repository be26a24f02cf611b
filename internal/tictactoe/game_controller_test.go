package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

func TestNewGame(t *testing.T) {
	// When: create a new game
	actualGame := NewGame()

	// Then: the game state should correspond to the expected initial state
	expectedGame := entity.GameState{
		Board:         entity.Board{},
		CurrentPlayer: entity.MarkX,
		Won:           false,
	}

	require.Equal(t, expectedGame, actualGame)
}

func TestResetGame(t *testing.T) {
	// Given: a game in progress
	game, err := ApplyMove(NewGame(), Cell(4))
	require.NoError(t, err)
	require.NotEqual(t, NewGame(), game)

	// When: the game is reset
	actualGame := ResetGame()

	// Then: it is indistinguishable from a new one
	require.Equal(t, NewGame(), actualGame)
}

func TestApplyMove(t *testing.T) {
	t.Run("Places the mark and passes the turn", func(t *testing.T) {
		// Given: a new game
		game := NewGame()

		// When: X moves to cell 0
		next, err := ApplyMove(game, Cell(0))
		require.NoError(t, err)

		// Then: the board holds X and O is to move
		expectedGame := entity.GameState{
			Board:         entity.Board{entity.MarkX},
			CurrentPlayer: entity.MarkO,
			Won:           false,
		}
		require.Equal(t, expectedGame, next)

		// And: the previous state is left untouched
		require.Equal(t, NewGame(), game)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X occupies cell 0
		game, err := ApplyMove(NewGame(), Cell(0))
		require.NoError(t, err)

		// When: O tries to make a move to the same cell
		next, err := ApplyMove(game, Cell(0))

		// Then: ErrCellOccupied is returned and the state is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.Equal(t, game, next)
	})

	t.Run("Error on cell out of range", func(t *testing.T) {
		for _, cell := range []int{-1, 9, 20} {
			_, err := ApplyMove(NewGame(), Cell(cell))

			assert.ErrorIs(t, err, apperror.ErrPositionOutOfRange, "cell %d", cell)
		}
	})

	t.Run("Error on non integer position", func(t *testing.T) {
		// Given: a position that is not an integer
		pos := ParsePosition(json.RawMessage(`1.5`))

		// When: applying it
		_, err := ApplyMove(NewGame(), pos)

		// Then: ErrPositionNotInteger is returned
		require.ErrorIs(t, err, apperror.ErrPositionNotInteger)
	})

	t.Run("Won game rejects before range is checked", func(t *testing.T) {
		// Given: a won game
		game := playMoves(t, 0, 1, 4, 2, 8)
		require.True(t, game.Won)

		// When: an out of range move arrives
		_, err := ApplyMove(game, Cell(42))

		// Then: the won check comes first
		require.ErrorIs(t, err, apperror.ErrGameAlreadyWon)
	})

	t.Run("Range is checked before occupancy", func(t *testing.T) {
		// Given: a game with the first cell taken
		game := playMoves(t, 0)

		// When: a non integer position arrives
		_, err := ApplyMove(game, ParsePosition(json.RawMessage(`"0"`)))

		// Then: the integer check wins over occupancy
		require.ErrorIs(t, err, apperror.ErrPositionNotInteger)
	})

	t.Run("Diagonal win", func(t *testing.T) {
		// When: X plays 0, 4, 8 and O plays 1, 2
		game := playMoves(t, 0, 1, 4, 2, 8)

		// Then: the game is won by X along the diagonal
		assert.True(t, game.Won)
		assert.Equal(t, entity.MarkX, game.Board[0])
		assert.Equal(t, entity.MarkX, game.Board[4])
		assert.Equal(t, entity.MarkX, game.Board[8])
		assert.Equal(t, entity.MarkX, game.Winner())
	})

	t.Run("Draw fills the board without a winner", func(t *testing.T) {
		// When: the board is filled with no line
		game := playMoves(t, 0, 1, 2, 5, 3, 6, 4, 8, 7)

		// Then: nobody won and every cell is taken
		assert.False(t, game.Won)
		assert.True(t, game.Board.IsFull())
		assert.True(t, game.IsDraw())
	})

	t.Run("Valid moves alternate players and never clear cells", func(t *testing.T) {
		game := NewGame()
		for _, cell := range []int{4, 0, 8, 2, 6} {
			previous := game

			next, err := ApplyMove(game, Cell(cell))
			require.NoError(t, err)

			assert.Equal(t, previous.CurrentPlayer.Opponent(), next.CurrentPlayer)
			for i, mark := range previous.Board {
				if !mark.IsEmpty() {
					assert.Equal(t, mark, next.Board[i])
				}
			}

			game = next
		}
	})
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		integer bool
		inRange bool
		value   int
	}{
		{name: "integer", raw: `3`, integer: true, inRange: true, value: 3},
		{name: "integral float", raw: `3.0`, integer: true, inRange: true, value: 3},
		{name: "negative", raw: `-1`, integer: true, inRange: false},
		{name: "too large", raw: `9`, integer: true, inRange: false},
		{name: "huge exponent", raw: `1e300`, integer: true, inRange: false},
		{name: "fraction", raw: `1.5`, integer: false},
		{name: "string", raw: `"3"`, integer: false},
		{name: "null", raw: `null`, integer: false},
		{name: "missing", raw: ``, integer: false},
		{name: "object", raw: `{}`, integer: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := ParsePosition(json.RawMessage(tt.raw))

			assert.Equal(t, tt.integer, pos.IsInteger())
			if tt.integer {
				assert.Equal(t, tt.inRange, pos.InRange())
			}
			if tt.inRange {
				assert.Equal(t, tt.value, pos.Value())
			}
		})
	}
}

func playMoves(t *testing.T, cells ...int) entity.GameState {
	t.Helper()

	game := NewGame()
	for _, cell := range cells {
		var err error
		game, err = ApplyMove(game, Cell(cell))
		require.NoError(t, err)
	}

	return game
}
