package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

const msgInvalidBody = "Invalid request body"

type errorResponse struct {
	Error string `json:"error"`
}

// errorStatuses maps domain errors to what clients see. Checked in order.
var errorStatuses = []struct {
	target  error
	status  int
	message string
}{
	{apperror.ErrGameNotFound, http.StatusNotFound, "Game not found"},
	{apperror.ErrGameAlreadyWon, http.StatusBadRequest, "Game already won"},
	{apperror.ErrPositionNotInteger, http.StatusBadRequest, "Position must be an integer"},
	{apperror.ErrPositionOutOfRange, http.StatusBadRequest, "Position must be between 0 and 8"},
	{apperror.ErrCellOccupied, http.StatusBadRequest, "Position is already occupied"},
	{apperror.ErrRoomIDRequired, http.StatusBadRequest, "roomId is required"},
	{apperror.ErrPersistence, http.StatusInternalServerError, "Storage unavailable"},
}

func statusFor(err error) (int, string) {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.target) {
			return entry.status, entry.message
		}
	}

	return http.StatusInternalServerError, "Internal Server Error"
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}

// writeError - logs unexpected failures, domain rejections are only answered.
func (that *Server) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, message := statusFor(err)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "error", err)
	}

	that.writeMessage(w, status, message)
}
