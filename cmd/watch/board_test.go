package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

func TestRenderer_Render(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name   string
		game   func() entity.GameState
		board  string
		status string
	}{
		{
			name:   "fresh game",
			game:   entity.NewGameState,
			board:  "0 | 1 | 2\n--+---+--\n3 | 4 | 5\n--+---+--\n6 | 7 | 8\n",
			status: "X to move\n",
		},
		{
			name: "won game",
			game: func() entity.GameState {
				game := entity.NewGameState()
				game.Board = entity.Board{entity.MarkX, entity.MarkX, entity.MarkX, entity.MarkO, entity.MarkO}
				game.CurrentPlayer = entity.MarkO
				game.Won = true
				return game
			},
			board:  "X | X | X\n--+---+--\nO | O | 5\n--+---+--\n6 | 7 | 8\n",
			status: "X won\n",
		},
		{
			name: "draw",
			game: func() entity.GameState {
				x, o := entity.MarkX, entity.MarkO
				game := entity.NewGameState()
				game.Board = entity.Board{x, o, x, x, x, o, o, x, o}
				game.CurrentPlayer = o
				return game
			},
			board:  "X | O | X\n--+---+--\nX | X | O\n--+---+--\nO | X | O\n",
			status: "draw\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			newRenderer(&out).render(tt.game())

			assert.Equal(t, tt.board+"\n"+tt.status, out.String())
		})
	}
}
