package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type renderer struct {
	out io.Writer

	xColor    *color.Color
	oColor    *color.Color
	cellColor *color.Color
	infoColor *color.Color
	winColor  *color.Color
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{
		out:       out,
		xColor:    color.New(color.FgCyan, color.Bold),
		oColor:    color.New(color.FgMagenta, color.Bold),
		cellColor: color.New(color.FgHiBlack),
		infoColor: color.New(color.FgWhite),
		winColor:  color.New(color.FgGreen, color.Bold),
	}
}

// render - draws the board and a status line. Empty cells show their index so the
// watcher knows which position to send.
func (that *renderer) render(game entity.GameState) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			that.cell(cell, game.Board[cell])

			if col < 2 {
				fmt.Fprint(that.out, " | ")
			}
		}
		fmt.Fprintln(that.out)

		if row < 2 {
			fmt.Fprintln(that.out, "--+---+--")
		}
	}

	fmt.Fprintln(that.out)
	that.status(game)
}

func (that *renderer) cell(index int, mark entity.Mark) {
	switch mark {
	case entity.MarkX:
		that.xColor.Fprint(that.out, string(mark))
	case entity.MarkO:
		that.oColor.Fprint(that.out, string(mark))
	default:
		that.cellColor.Fprint(that.out, strconv.Itoa(index))
	}
}

func (that *renderer) status(game entity.GameState) {
	switch {
	case game.Won:
		that.winColor.Fprintf(that.out, "%s won\n", game.Winner())
	case game.IsDraw():
		that.infoColor.Fprintln(that.out, "draw")
	default:
		that.infoColor.Fprintf(that.out, "%s to move\n", game.CurrentPlayer)
	}
}
