package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mark is the symbol occupying a board cell.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

// BoardSize - number of cells on the board.
const BoardSize = 9

var (
	ErrUnknownMark = errors.New("unknown mark")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Opponent - returns the mark that moves after this one.
func (that Mark) Opponent() Mark {
	if that == MarkX {
		return MarkO
	}
	return MarkX
}

func (that Mark) IsEmpty() bool {
	return that == MarkEmpty
}

// MarshalJSON - empty cells are encoded as null.
func (that Mark) MarshalJSON() ([]byte, error) {
	if that.IsEmpty() {
		return []byte("null"), nil
	}

	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = MarkEmpty
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal mark: %w", err)
	}

	switch mark := Mark(raw); mark {
	case MarkEmpty, MarkX, MarkO:
		*that = mark
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, raw)
	}
}

// Board is the fixed 3x3 grid, indexed row by row.
type Board [BoardSize]Mark

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell.IsEmpty() {
			return false
		}
	}

	return true
}

// winningMark - returns the mark of the first complete line, or MarkEmpty.
func (that Board) winningMark() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if !a.IsEmpty() && a == b && b == c {
			return a
		}
	}

	return MarkEmpty
}

// HasWinner - reports whether any row, column or diagonal holds three identical marks.
func HasWinner(board Board) bool {
	return !board.winningMark().IsEmpty()
}

// GameState is everything persisted and broadcast for a room.
type GameState struct {
	Board         Board `json:"board"`
	CurrentPlayer Mark  `json:"currentPlayer"`
	Won           bool  `json:"won"`
}

func NewGameState() GameState {
	return GameState{
		CurrentPlayer: MarkX,
	}
}

// Winner - returns the mark that completed a line, MarkEmpty while nobody has.
func (that GameState) Winner() Mark {
	if !that.Won {
		return MarkEmpty
	}

	return that.Board.winningMark()
}

// IsDraw - the board is full and nobody won.
func (that GameState) IsDraw() bool {
	return !that.Won && that.Board.IsFull()
}
