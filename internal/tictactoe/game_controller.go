package tictactoe

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Position is a requested cell as it arrived from a client.
type Position struct {
	cell    int
	integer bool
}

// Cell - builds a Position from an already validated integer.
func Cell(cell int) Position {
	return Position{cell: cell, integer: true}
}

// ParsePosition - classifies a raw JSON value. Any JSON number without a fractional part
// is an integer, everything else (strings, null, fractions, missing) is not.
func ParsePosition(raw json.RawMessage) Position {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return Position{}
	}

	number, ok := value.(json.Number)
	if !ok {
		return Position{}
	}

	if cell, err := number.Int64(); err == nil {
		return Position{cell: clampCell(float64(cell)), integer: true}
	}

	float, err := number.Float64()
	if err != nil || math.Trunc(float) != float {
		return Position{}
	}

	return Position{cell: clampCell(float), integer: true}
}

// clampCell keeps huge integers out of range instead of letting them overflow into it.
func clampCell(value float64) int {
	if value < 0 || value >= entity.BoardSize {
		return -1
	}
	return int(value)
}

func (that Position) IsInteger() bool {
	return that.integer
}

func (that Position) InRange() bool {
	return that.cell >= 0 && that.cell < entity.BoardSize
}

// Value - the requested cell index, meaningful only when IsInteger and InRange hold.
func (that Position) Value() int {
	return that.cell
}

// NewGame - returns a fresh state: empty board, X to move.
func NewGame() entity.GameState {
	return entity.NewGameState()
}

// ResetGame - returns a fresh state regardless of what was played before.
func ResetGame() entity.GameState {
	return entity.NewGameState()
}

// ApplyMove - places the current player's mark at pos and returns the resulting state.
// The checks run in a fixed order and the first failing one is returned.
func ApplyMove(state entity.GameState, pos Position) (entity.GameState, error) {
	if err := validateMove(state, pos); err != nil {
		return state, err
	}

	next := state
	next.Board[pos.Value()] = state.CurrentPlayer
	next.CurrentPlayer = state.CurrentPlayer.Opponent()
	next.Won = entity.HasWinner(next.Board)

	return next, nil
}

// validateMove - checks if the move is valid.
func validateMove(state entity.GameState, pos Position) error {
	if state.Won {
		return apperror.ErrGameAlreadyWon
	}

	if !pos.IsInteger() {
		return apperror.ErrPositionNotInteger
	}

	if !pos.InRange() {
		return apperror.ErrPositionOutOfRange
	}

	if !state.Board[pos.Value()].IsEmpty() {
		return apperror.ErrCellOccupied
	}

	return nil
}
