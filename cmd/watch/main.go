// Command watch follows one room in the terminal and redraws the board on every update.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var (
	addr   = flag.String("addr", "localhost:9090", "Game server address")
	roomID = flag.String("room", "", "Room to watch")
	secure = flag.Bool("tls", false, "Use wss instead of ws")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *roomID == "" {
		fmt.Fprintln(os.Stderr, "usage: watch -addr host:port -room <id>")
		os.Exit(2)
	}

	if err := watch(logger); err != nil {
		logger.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

func watch(logger *slog.Logger) error {
	scheme := "ws"
	if *secure {
		scheme = "wss"
	}
	target := url.URL{Scheme: scheme, Host: *addr, Path: "/ws/" + *roomID}

	conn, resp, err := websocket.DefaultDialer.Dial(target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", target.String(), err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	logger.Info("watching room", "roomID", *roomID)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, message)
	}()

	board := newRenderer(os.Stdout)

	for {
		_, message, readErr := conn.ReadMessage()
		if readErr != nil {
			if websocket.IsCloseError(readErr, websocket.CloseNormalClosure) {
				logger.Info("room closed")
				return nil
			}
			return fmt.Errorf("failed to read update: %w", readErr)
		}

		var game entity.GameState
		if err = json.Unmarshal(message, &game); err != nil {
			logger.Warn("skipping malformed update", "error", err)
			continue
		}

		// clear screen, cursor home
		fmt.Fprint(os.Stdout, "\033[H\033[2J")
		board.render(game)
	}
}
