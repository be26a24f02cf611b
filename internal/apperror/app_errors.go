package apperror

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")

	ErrGameAlreadyWon     = errors.New("game already won")
	ErrPositionNotInteger = errors.New("position must be an integer")
	ErrPositionOutOfRange = errors.New("position must be between 0 and 8")
	ErrCellOccupied       = errors.New("position is already occupied")

	ErrRoomIDRequired = errors.New("roomId is required")

	ErrPersistence = errors.New("persistence failure")
)

// IsValidation - reports whether err rejects a move or request shape.
func IsValidation(err error) bool {
	return errors.Is(err, ErrGameAlreadyWon) ||
		errors.Is(err, ErrPositionNotInteger) ||
		errors.Is(err, ErrPositionOutOfRange) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrRoomIDRequired)
}
