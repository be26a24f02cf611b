package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

const qrSize = 320

type roomView struct {
	RoomID string `json:"roomId"`
	entity.GameState
}

type createdResponse struct {
	RoomID string `json:"roomId"`
}

type moveRequest struct {
	Position json.RawMessage `json:"position"`
}

type resetRequest struct {
	RoomID string `json:"roomId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// decodeBody - an empty body decodes as the zero value, so missing fields are reported
// by the handler instead of as a malformed request.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (that *Server) listGames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "listGames")

	rooms, err := that.games.ListGames(r.Context())
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, roomView{RoomID: room.ID, GameState: room.State})
	}

	that.writeJSON(w, http.StatusOK, views)
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := that.logger.With("method", "getGame")

	game, err := that.games.GetGame(r.Context(), ps.ByName("id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) createGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "createGame")

	room, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, createdResponse{RoomID: room.ID})
}

func (that *Server) makeMove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := that.logger.With("method", "makeMove")

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		log.Debug("malformed move request", "error", err)
		that.writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	game, err := that.games.MakeMove(r.Context(), ps.ByName("id"), tictactoe.ParsePosition(req.Position))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) resetGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "resetGame")

	var req resetRequest
	if err := decodeBody(r, &req); err != nil {
		log.Debug("malformed reset request", "error", err)
		that.writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if req.RoomID == "" {
		that.writeError(w, log, apperror.ErrRoomIDRequired)
		return
	}

	game, err := that.games.ResetGame(r.Context(), req.RoomID)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) deleteGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := that.logger.With("method", "deleteGame")

	if err := that.games.DeleteGame(r.Context(), ps.ByName("id")); err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, http.StatusOK, messageResponse{Message: "Game deleted"})
}

// roomQRCode - PNG QR code of the room's observer URL, for watching from a second device.
func (that *Server) roomQRCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log := that.logger.With("method", "roomQRCode")
	id := ps.ByName("id")

	if _, err := that.games.GetGame(r.Context(), id); err != nil {
		that.writeError(w, log, err)
		return
	}

	png, err := qrcode.Encode(observerURL(r, id), qrcode.Medium, qrSize)
	if err != nil {
		that.writeError(w, log, fmt.Errorf("failed to encode qr code: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err = w.Write(png); err != nil {
		log.Error("failed to write qr code", "error", err)
	}
}

func (that *Server) observeRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	that.rooms.ServeRoom(w, r, ps.ByName("id"))
}

// observerURL - scheme follows TLS or X-Forwarded-Proto of the incoming request.
func observerURL(r *http.Request, id string) string {
	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}

	return scheme + "://" + r.Host + "/ws/" + id
}
