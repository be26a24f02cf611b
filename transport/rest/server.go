package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	ListGames(ctx context.Context) ([]repository.Room, error)
	GetGame(ctx context.Context, id string) (entity.GameState, error)
	CreateGame(ctx context.Context) (repository.Room, error)
	MakeMove(ctx context.Context, id string, pos tictactoe.Position) (entity.GameState, error)
	ResetGame(ctx context.Context, id string) (entity.GameState, error)
	DeleteGame(ctx context.Context, id string) error
}

type roomServer interface {
	ServeRoom(w http.ResponseWriter, r *http.Request, roomID string)
}

// Server is the HTTP boundary of the game service.
type Server struct {
	logger *slog.Logger

	games  gameManager
	rooms  roomServer
	router *httprouter.Router

	allowedOrigins []string
}

func New(logger *slog.Logger, games gameManager, rooms roomServer, allowedOrigins []string) *Server {
	server := &Server{
		logger:         logger.With("component", "rest"),
		games:          games,
		rooms:          rooms,
		router:         httprouter.New(),
		allowedOrigins: allowedOrigins,
	}

	server.routes()

	return server
}

func (that *Server) routes() {
	that.router.GET("/ping", pingHandler)

	that.router.GET("/games", that.listGames)
	that.router.POST("/games", that.createGame)
	that.router.GET("/games/:id", that.getGame)
	that.router.DELETE("/games/:id", that.deleteGame)
	that.router.POST("/games/:id/move", that.makeMove)
	that.router.GET("/games/:id/qr", that.roomQRCode)
	that.router.POST("/reset", that.resetGame)

	that.router.GET("/ws/:id", that.observeRoom)

	// preflight requests are answered by the CORS middleware
	that.router.HandleOPTIONS = false
}

// Handler - the router wrapped with CORS.
func (that *Server) Handler() http.Handler {
	return that.cors(that.router)
}

// Start - serves on port until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}
